package social

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name           string     `bun:"name,notnull" json:"name,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// SocialLinks are the optional outbound links on a profile
type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is an entry in a profile's embedded experience collection
type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company,omitempty"`
	Location    string     `json:"location,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is an entry in a profile's embedded education collection
type Education struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree,omitempty"`
	FieldOfStudy string     `json:"field_of_study,omitempty"`
	From         *time.Time `json:"from,omitempty"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Subscriber references a user inside a profile's subscribers set
type Subscriber struct {
	UserID uuid.UUID `json:"user"`
}

// Like references a user inside a post's likes set
type Like struct {
	UserID uuid.UUID `json:"user"`
}

// Profile is the profile document. The experience, education, and subscriber
// collections are embedded as JSON columns, the store only guarantees
// per-document atomicity on them.
type Profile struct {
	bun.BaseModel  `bun:"table:profiles,alias:prf"`
	ID             uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID         uuid.UUID    `bun:"user_id,notnull,unique,type:uuid" json:"user,omitempty"`
	User           *User        `bun:"rel:belongs-to,join:user_id=id" json:"user_info,omitempty"`
	Handle         string       `bun:"handle,notnull,unique" json:"handle,omitempty"`
	Company        string       `bun:"company" json:"company,omitempty"`
	Website        string       `bun:"website" json:"website,omitempty"`
	Location       string       `bun:"location" json:"location,omitempty"`
	Bio            string       `bun:"bio" json:"bio,omitempty"`
	Status         string       `bun:"status" json:"status,omitempty"`
	GithubUsername string       `bun:"github_username" json:"github_username,omitempty"`
	GravatarImg    string       `bun:"gravatar_img" json:"gravatar_img,omitempty"`
	Skills         []string     `bun:"skills,type:jsonb" json:"skills,omitempty"`
	Social         SocialLinks  `bun:"social,type:jsonb" json:"social"`
	Experience     []Experience `bun:"experience,type:jsonb" json:"experience"`
	Education      []Education  `bun:"education,type:jsonb" json:"education"`
	Subscribers    []Subscriber `bun:"subscribers,type:jsonb" json:"subscribers"`
	CreatedAt      *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Post is the post document with an embedded likes set
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user,omitempty"`
	Text          string     `bun:"text,notnull" json:"text"`
	Likes         []Like     `bun:"likes,type:jsonb" json:"likes"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsOwnedBy reports whether the profile belongs to the given user
func (p *Profile) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// AddExperience prepends an entry so the collection stays newest first
func (p *Profile) AddExperience(entry Experience) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	p.Experience = append([]Experience{entry}, p.Experience...)
}

// AddEducation prepends an entry so the collection stays newest first
func (p *Profile) AddEducation(entry Education) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	p.Education = append([]Education{entry}, p.Education...)
}

// RemoveExperience removes the entry with the given id. An unknown id leaves
// the collection untouched and reports ErrEntryNotFound; it never falls back
// to removing the head entry.
func (p *Profile) RemoveExperience(id uuid.UUID) error {
	for i, entry := range p.Experience {
		if entry.ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// RemoveEducation removes the entry with the given id, same contract as
// RemoveExperience.
func (p *Profile) RemoveEducation(id uuid.UUID) error {
	for i, entry := range p.Education {
		if entry.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// IsSubscribed reports whether the user appears in the subscribers set
func (p *Profile) IsSubscribed(userID uuid.UUID) bool {
	for _, sub := range p.Subscribers {
		if sub.UserID == userID {
			return true
		}
	}
	return false
}

// Subscribe adds the user to the subscribers set, newest first. Subscribing
// to your own profile or subscribing twice fails without mutating the set.
func (p *Profile) Subscribe(userID uuid.UUID) error {
	if p.UserID == userID {
		return ErrSelfSubscribe
	}
	if p.IsSubscribed(userID) {
		return ErrAlreadySubscribed
	}
	p.Subscribers = append([]Subscriber{{UserID: userID}}, p.Subscribers...)
	return nil
}

// Unsubscribe removes the user from the subscribers set
func (p *Profile) Unsubscribe(userID uuid.UUID) error {
	for i, sub := range p.Subscribers {
		if sub.UserID == userID {
			p.Subscribers = append(p.Subscribers[:i], p.Subscribers[i+1:]...)
			return nil
		}
	}
	return ErrNotSubscribed
}

// IsOwnedBy reports whether the post belongs to the given user
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// IsLikedBy reports whether the user appears in the likes set
func (p *Post) IsLikedBy(userID uuid.UUID) bool {
	for _, like := range p.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}

// AddLike adds the user to the likes set, newest first. A user appears in the
// set at most once; the second like fails and leaves the set unchanged.
func (p *Post) AddLike(userID uuid.UUID) error {
	if p.IsLikedBy(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = append([]Like{{UserID: userID}}, p.Likes...)
	return nil
}

// RemoveLike removes the user from the likes set
func (p *Post) RemoveLike(userID uuid.UUID) error {
	for i, like := range p.Likes {
		if like.UserID == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return ErrNotLiked
}

// SplitSkills turns the comma separated skills field of the legacy payload
// into the ordered skills list.
func SplitSkills(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	parts := strings.Split(csv, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		skills = append(skills, strings.TrimSpace(part))
	}
	return skills
}

// GravatarURL derives the avatar URL the original backend computed from the
// gravatar email (size 200, pg rated, mystery-man default).
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return ""
	}

	sum := md5.Sum([]byte(normalized))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
