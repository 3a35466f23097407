package social

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// sessionToken builds the validated token the auth middleware leaves in
// router locals for the given user.
func sessionToken(uid uuid.UUID) *jwt.Token {
	now := time.Now()
	return &jwt.Token{
		Claims: jwt.MapClaims{
			"sub": uid.String(),
			"uid": uid.String(),
			"iss": "sharesocial",
			"exp": float64(now.Add(time.Hour).Unix()),
			"iat": float64(now.Unix()),
		},
		Valid: true,
	}
}

// stubUsers implements Users without a database
type stubUsers struct {
	repository.Repository[*User]
	byEmail        map[string]*User
	byID           map[uuid.UUID]*User
	created        []*User
	removed        []uuid.UUID
	attemptedLogin int
	succeededLogin int
}

func newStubUsers(records ...*User) *stubUsers {
	s := &stubUsers{
		byEmail: map[string]*User{},
		byID:    map[uuid.UUID]*User{},
	}

	for _, u := range records {
		s.index(u)
	}

	return s
}

func (s *stubUsers) index(u *User) {
	s.byEmail[u.Email] = u
	s.byID[u.ID] = u
}

func (s *stubUsers) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return s.GetByIdentifierTx(ctx, nil, identifier, criteria...)
}

func (s *stubUsers) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	if u, ok := s.byEmail[identifier]; ok {
		return u, nil
	}

	if id, err := uuid.Parse(identifier); err == nil {
		if u, ok := s.byID[id]; ok {
			return u, nil
		}
	}

	return nil, repository.NewRecordNotFound()
}

func (s *stubUsers) Register(ctx context.Context, user *User) (*User, error) {
	return s.CreateTx(ctx, nil, user)
}

func (s *stubUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return s.CreateTx(ctx, tx, user)
}

func (s *stubUsers) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return s.CreateTx(ctx, nil, record, criteria...)
}

func (s *stubUsers) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	s.created = append(s.created, record)
	s.index(record)

	return record, nil
}

func (s *stubUsers) RemoveByID(ctx context.Context, id uuid.UUID) error {
	return s.RemoveByIDTx(ctx, nil, id)
}

func (s *stubUsers) RemoveByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	u, ok := s.byID[id]
	if !ok {
		return repository.NewRecordNotFound()
	}

	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	s.removed = append(s.removed, id)

	return nil
}

func (s *stubUsers) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return s.TrackAttemptedLoginTx(ctx, nil, user)
}

func (s *stubUsers) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	s.attemptedLogin++
	return nil
}

func (s *stubUsers) TrackSucccessfulLogin(ctx context.Context, user *User) error {
	return s.TrackSucccessfulLoginTx(ctx, nil, user)
}

func (s *stubUsers) TrackSucccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	s.succeededLogin++
	return nil
}

// stubProfiles implements Profiles in memory
type stubProfiles struct {
	records   []*Profile
	updated   []*Profile
	deleted   []uuid.UUID
	updateErr error
}

func newStubProfiles(records ...*Profile) *stubProfiles {
	return &stubProfiles{records: records}
}

func (s *stubProfiles) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.GetByUserIDTx(ctx, nil, userID)
}

func (s *stubProfiles) GetByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*Profile, error) {
	for _, p := range s.records {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (s *stubProfiles) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	for _, p := range s.records {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (s *stubProfiles) GetByHandle(ctx context.Context, handle string) (*Profile, error) {
	for _, p := range s.records {
		if p.Handle == handle {
			return p, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (s *stubProfiles) List(ctx context.Context) ([]*Profile, error) {
	return s.records, nil
}

func (s *stubProfiles) Create(ctx context.Context, profile *Profile) (*Profile, error) {
	return s.CreateTx(ctx, nil, profile)
}

func (s *stubProfiles) CreateTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	s.records = append(s.records, profile)
	return profile, nil
}

func (s *stubProfiles) Update(ctx context.Context, profile *Profile) (*Profile, error) {
	return s.UpdateTx(ctx, nil, profile)
}

func (s *stubProfiles) UpdateTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updated = append(s.updated, profile)
	return profile, nil
}

func (s *stubProfiles) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return s.DeleteByUserIDTx(ctx, nil, userID)
}

func (s *stubProfiles) DeleteByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	s.deleted = append(s.deleted, userID)

	kept := s.records[:0]
	for _, p := range s.records {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	s.records = kept

	return nil
}

// stubPosts implements Posts in memory
type stubPosts struct {
	records []*Post
	updated []*Post
	deleted []uuid.UUID
}

func newStubPosts(records ...*Post) *stubPosts {
	return &stubPosts{records: records}
}

func (s *stubPosts) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	for _, p := range s.records {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrPostNotFound
}

func (s *stubPosts) List(ctx context.Context) ([]*Post, error) {
	return s.records, nil
}

func (s *stubPosts) Create(ctx context.Context, post *Post) (*Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	s.records = append(s.records, post)
	return post, nil
}

func (s *stubPosts) Update(ctx context.Context, post *Post) (*Post, error) {
	s.updated = append(s.updated, post)
	return post, nil
}

func (s *stubPosts) DeleteByID(ctx context.Context, id uuid.UUID) error {
	kept := s.records[:0]
	found := false
	for _, p := range s.records {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	s.records = kept

	if !found {
		return ErrPostNotFound
	}

	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubPosts) DeleteByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	kept := make([]*Post, 0, len(s.records))
	for _, p := range s.records {
		if p.UserID == userID {
			s.deleted = append(s.deleted, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	s.records = kept

	return nil
}

// stubRepoManager wires the in memory stores together
type stubRepoManager struct {
	users    *stubUsers
	profiles *stubProfiles
	posts    *stubPosts
}

func newStubRepoManager() *stubRepoManager {
	return &stubRepoManager{
		users:    newStubUsers(),
		profiles: newStubProfiles(),
		posts:    newStubPosts(),
	}
}

func (m *stubRepoManager) Validate() error {
	return nil
}

func (m *stubRepoManager) MustValidate() {}

func (m *stubRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *stubRepoManager) Users() Users {
	return m.users
}

func (m *stubRepoManager) Profiles() Profiles {
	return m.profiles
}

func (m *stubRepoManager) Posts() Posts {
	return m.posts
}
