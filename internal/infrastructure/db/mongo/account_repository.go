package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custommatt/account-api/internal/core/domain"
)

const (
	collectionAccounts = "users"

	emailIndex    = "uniq_email"
	usernameIndex = "uniq_username"
	zipIndex      = "zip_account_type"
)

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type mongoAccount struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	AccountType    string             `bson:"accountType"`
	FirstName      string             `bson:"firstName"`
	LastName       string             `bson:"lastName"`
	PreferredName  string             `bson:"preferredName,omitempty"`
	Username       string             `bson:"username"`
	Email          string             `bson:"email"`
	Password       string             `bson:"password"`
	LicenseNumber  string             `bson:"licenseNumber,omitempty"`
	BusinessNumber string             `bson:"businessNumber,omitempty"`
	ReferralName   string             `bson:"referralName,omitempty"`
	LicensedState  string             `bson:"licensedState,omitempty"`
	ZipCode        string             `bson:"zipCode,omitempty"`
	HearAbout      string             `bson:"hearAbout"`
	JoinSociety    bool               `bson:"joinSociety"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func fromDomain(a *domain.Account) mongoAccount {
	f := a.Profile.Fields()
	return mongoAccount{
		AccountType:    string(a.AccountType()),
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		PreferredName:  a.PreferredName,
		Username:       a.Username,
		Email:          a.Email,
		Password:       a.PasswordHash,
		LicenseNumber:  f.LicenseNumber,
		BusinessNumber: f.BusinessNumber,
		ReferralName:   f.ReferralName,
		LicensedState:  f.LicensedState,
		ZipCode:        f.ZipCode,
		HearAbout:      string(a.HearAbout),
		JoinSociety:    a.JoinSociety,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

func (m mongoAccount) toDomain() (*domain.Account, error) {
	profile, err := domain.SelectProfile(domain.AccountType(m.AccountType), domain.ConditionalFields{
		LicenseNumber:  m.LicenseNumber,
		BusinessNumber: m.BusinessNumber,
		ReferralName:   m.ReferralName,
		LicensedState:  m.LicensedState,
		ZipCode:        m.ZipCode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: account %s has unknown type %q", domain.ErrPersistence, m.ID.Hex(), m.AccountType)
	}

	return &domain.Account{
		ID:            m.ID.Hex(),
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		PreferredName: m.PreferredName,
		Username:      m.Username,
		Email:         m.Email,
		PasswordHash:  m.Password,
		HearAbout:     domain.HearAbout(m.HearAbout),
		JoinSociety:   m.JoinSociety,
		Profile:       profile,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}, nil
}

// Create inserts a new account and sets its ID. The account must already
// have passed through its save hook.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	if a.HasPendingPassword() || a.PasswordHash == "" {
		return domain.ErrUnhashedCredential
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomain(a)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyConflict(err)
		}
		return fmt.Errorf("%w: insert account: %v", domain.ErrPersistence, err)
	}

	a.ID = doc.ID.Hex()
	return nil
}

// FindByID returns domain.ErrAccountNotFound for unknown or malformed IDs.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: find account: %v", domain.ErrPersistence, err)
	}
	return doc.toDomain()
}

// List returns every account, oldest first. There is no pagination.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: list accounts: %v", domain.ErrPersistence, err)
	}

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode accounts: %v", domain.ErrPersistence, err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		a, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

var publicProjection = bson.D{
	{Key: "username", Value: 1},
	{Key: "email", Value: 1},
	{Key: "firstName", Value: 1},
	{Key: "lastName", Value: 1},
	{Key: "preferredName", Value: 1},
	{Key: "accountType", Value: 1},
	{Key: "zipCode", Value: 1},
	{Key: "licensedState", Value: 1},
}

func (r *AccountRepository) SearchProfessionalsByZip(ctx context.Context, zip string) ([]domain.PublicAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"zipCode": zip,
		"accountType": bson.M{"$in": bson.A{
			string(domain.AccountTypeLicensedStylist),
			string(domain.AccountTypeSalonOwner),
		}},
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(publicProjection))
	if err != nil {
		return nil, fmt.Errorf("%w: search accounts: %v", domain.ErrPersistence, err)
	}

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode accounts: %v", domain.ErrPersistence, err)
	}

	out := make([]domain.PublicAccount, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.PublicAccount{
			Username:      d.Username,
			Email:         d.Email,
			FirstName:     d.FirstName,
			LastName:      d.LastName,
			PreferredName: d.PreferredName,
			AccountType:   domain.AccountType(d.AccountType),
			ZipCode:       d.ZipCode,
			LicensedState: d.LicensedState,
		})
	}
	return out, nil
}

// DeleteAll removes every account and reports how many were deleted.
func (r *AccountRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: delete accounts: %v", domain.ErrPersistence, err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the unique and search indexes on the accounts collection.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(emailIndex).SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName(usernameIndex).SetUnique(true)},
		{Keys: bson.D{{Key: "zipCode", Value: 1}, {Key: "accountType", Value: 1}}, Options: options.Index().SetName(zipIndex)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// duplicateKeyConflict maps a duplicate-key error to the field it violated.
// The server names the index in the error message.
func duplicateKeyConflict(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, usernameIndex):
		return domain.ErrUsernameTaken
	case strings.Contains(msg, emailIndex):
		return domain.ErrEmailTaken
	default:
		return fmt.Errorf("%w: duplicate key", domain.ErrConflict)
	}
}
