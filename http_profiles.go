package social

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ProfilesController handles profile documents and their embedded
// experience, education, and subscriber collections.
type ProfilesController struct {
	Logger Logger
	Repo   RepositoryManager
	Config Config
}

type ProfilesControllerOption func(*ProfilesController) *ProfilesController

func NewProfilesController(opts ...ProfilesControllerOption) *ProfilesController {
	c := &ProfilesController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in profiles controller...")
	}

	return c
}

func WithProfilesRepo(repo RepositoryManager) ProfilesControllerOption {
	return func(c *ProfilesController) *ProfilesController {
		c.Repo = repo
		return c
	}
}

func WithProfilesConfig(cfg Config) ProfilesControllerOption {
	return func(c *ProfilesController) *ProfilesController {
		c.Config = cfg
		return c
	}
}

func WithProfilesLogger(logger Logger) ProfilesControllerOption {
	return func(c *ProfilesController) *ProfilesController {
		c.Logger = logger
		return c
	}
}

// RegisterRoutes mounts the profile routes. Read routes are public,
// everything that writes runs behind the protected middleware.
func (c *ProfilesController) RegisterRoutes(group RouteRegistrar, protected router.MiddlewareFunc) {
	group.Get("/all", c.List)
	group.Get("/user/current", c.Current, protected)
	group.Get("/user/:user_id", c.GetByUser)
	group.Get("/handle/:handle", c.GetByHandle)
	group.Post("", c.Upsert, protected)
	group.Delete("", c.DeleteAccount, protected)
	group.Post("/experience", c.AddExperience, protected)
	group.Delete("/experience/:exp_id", c.RemoveExperience, protected)
	group.Post("/education", c.AddEducation, protected)
	group.Delete("/education/:edu_id", c.RemoveEducation, protected)
	group.Post("/subscribe/:profile_id", c.Subscribe, protected)
	group.Post("/unsubscribe/:profile_id", c.Unsubscribe, protected)
}

func (c *ProfilesController) List(ctx router.Context) error {
	records, err := c.Repo.Profiles().List(ctx.Context())
	if err != nil {
		c.Logger.Error("Profile list", "error", err)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, records)
}

func (c *ProfilesController) Current(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	record, err := c.Repo.Profiles().GetByUserID(ctx.Context(), uid)
	if err != nil {
		c.Logger.Error("Profile current", "error", err, "user_id", uid)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

func (c *ProfilesController) GetByUser(ctx router.Context) error {
	userID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		return RespondError(ctx, ErrProfileNotFound)
	}

	record, err := c.Repo.Profiles().GetByUserID(ctx.Context(), userID)
	if err != nil {
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

func (c *ProfilesController) GetByHandle(ctx router.Context) error {
	record, err := c.Repo.Profiles().GetByHandle(ctx.Context(), ctx.Param("handle"))
	if err != nil {
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

// ProfilePayload is the upsert body. Optional fields are pointers so an
// absent field leaves the stored value alone.
type ProfilePayload struct {
	Handle         string  `form:"handle" json:"handle"`
	Company        *string `form:"company" json:"company"`
	Website        *string `form:"website" json:"website"`
	Location       *string `form:"location" json:"location"`
	Bio            *string `form:"bio" json:"bio"`
	Status         *string `form:"status" json:"status"`
	GithubUsername *string `form:"github_username" json:"github_username"`
	Skills         *string `form:"skills" json:"skills"`
	Youtube        *string `form:"youtube" json:"youtube"`
	Twitter        *string `form:"twitter" json:"twitter"`
	Facebook       *string `form:"facebook" json:"facebook"`
	Linkedin       *string `form:"linkedin" json:"linkedin"`
	Instagram      *string `form:"instagram" json:"instagram"`
}

// Validate will run validation rules
func (r ProfilePayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Handle, validation.Required, validation.Length(1, 40)),
		)
	}, "Invalid profile payload")
}

func (r ProfilePayload) apply(p *Profile) {
	p.Handle = r.Handle

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&p.Company, r.Company)
	setString(&p.Website, r.Website)
	setString(&p.Location, r.Location)
	setString(&p.Bio, r.Bio)
	setString(&p.Status, r.Status)
	setString(&p.GithubUsername, r.GithubUsername)
	setString(&p.Social.Youtube, r.Youtube)
	setString(&p.Social.Twitter, r.Twitter)
	setString(&p.Social.Facebook, r.Facebook)
	setString(&p.Social.Linkedin, r.Linkedin)
	setString(&p.Social.Instagram, r.Instagram)

	if r.Skills != nil {
		p.Skills = SplitSkills(*r.Skills)
	}
}

func (c *ProfilesController) Upsert(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	payload := new(ProfilePayload)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("Profile upsert parse payload", "error", err)
		return RespondError(ctx, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("Profile upsert validate payload", "error", err)
		return RespondError(ctx, err)
	}

	// the handle is unique across profiles, not per user
	if other, err := c.Repo.Profiles().GetByHandle(ctx.Context(), payload.Handle); err == nil && other.UserID != uid {
		return RespondError(ctx, ErrHandleTaken)
	} else if err != nil && !errors.IsNotFound(err) {
		return RespondError(ctx, err)
	}

	existing, err := c.Repo.Profiles().GetByUserID(ctx.Context(), uid)
	if err != nil && !errors.IsNotFound(err) {
		return RespondError(ctx, err)
	}

	if existing != nil {
		payload.apply(existing)
		record, err := c.Repo.Profiles().Update(ctx.Context(), existing)
		if err != nil {
			c.Logger.Error("Profile update", "error", err)
			return RespondError(ctx, err)
		}
		return RespondData(ctx, router.StatusOK, record)
	}

	profile := &Profile{UserID: uid}
	payload.apply(profile)

	if user, err := c.Repo.Users().GetByIdentifier(ctx.Context(), uid.String()); err == nil {
		profile.GravatarImg = GravatarURL(user.Email)
	}

	record, err := c.Repo.Profiles().Create(ctx.Context(), profile)
	if err != nil {
		c.Logger.Error("Profile create", "error", err)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusCreated, record)
}

func (c *ProfilesController) DeleteAccount(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	deleteAccount := NewDeleteAccountHandler(c.Repo)
	if err := deleteAccount.Execute(ctx.Context(), DeleteAccountMessage{UserID: uid}); err != nil {
		c.Logger.Error("Account delete", "error", err, "user_id", uid)
		return RespondError(ctx, err)
	}

	return RespondMsg(ctx, router.StatusOK, "Account deleted")
}

// ExperiencePayload is the body for adding an experience entry
type ExperiencePayload struct {
	Title       string     `form:"title" json:"title"`
	Company     string     `form:"company" json:"company"`
	Location    string     `form:"location" json:"location"`
	From        *time.Time `form:"from" json:"from"`
	To          *time.Time `form:"to" json:"to"`
	Current     bool       `form:"current" json:"current"`
	Description string     `form:"description" json:"description"`
}

// Validate will run validation rules
func (r ExperiencePayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
			validation.Field(&r.Company, validation.Length(0, 200)),
			validation.Field(&r.From, validation.Required),
		)
	}, "Invalid experience payload")
}

func (c *ProfilesController) AddExperience(ctx router.Context) error {
	payload := new(ExperiencePayload)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("Experience parse payload", "error", err)
		return RespondError(ctx, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("Experience validate payload", "error", err)
		return RespondError(ctx, err)
	}

	return c.withOwnProfile(ctx, func(profile *Profile) error {
		profile.AddExperience(Experience{
			Title:       payload.Title,
			Company:     payload.Company,
			Location:    payload.Location,
			From:        payload.From,
			To:          payload.To,
			Current:     payload.Current,
			Description: payload.Description,
		})
		return nil
	})
}

func (c *ProfilesController) RemoveExperience(ctx router.Context) error {
	entryID, err := uuid.Parse(ctx.Param("exp_id"))
	if err != nil {
		return RespondError(ctx, ErrEntryNotFound)
	}

	return c.withOwnProfile(ctx, func(profile *Profile) error {
		return profile.RemoveExperience(entryID)
	})
}

// EducationPayload is the body for adding an education entry
type EducationPayload struct {
	School       string     `form:"school" json:"school"`
	Degree       string     `form:"degree" json:"degree"`
	FieldOfStudy string     `form:"field_of_study" json:"field_of_study"`
	From         *time.Time `form:"from" json:"from"`
	To           *time.Time `form:"to" json:"to"`
	Current      bool       `form:"current" json:"current"`
	Description  string     `form:"description" json:"description"`
}

// Validate will run validation rules
func (r EducationPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.School, validation.Required, validation.Length(1, 200)),
			validation.Field(&r.From, validation.Required),
		)
	}, "Invalid education payload")
}

func (c *ProfilesController) AddEducation(ctx router.Context) error {
	payload := new(EducationPayload)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("Education parse payload", "error", err)
		return RespondError(ctx, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("Education validate payload", "error", err)
		return RespondError(ctx, err)
	}

	return c.withOwnProfile(ctx, func(profile *Profile) error {
		profile.AddEducation(Education{
			School:       payload.School,
			Degree:       payload.Degree,
			FieldOfStudy: payload.FieldOfStudy,
			From:         payload.From,
			To:           payload.To,
			Current:      payload.Current,
			Description:  payload.Description,
		})
		return nil
	})
}

func (c *ProfilesController) RemoveEducation(ctx router.Context) error {
	entryID, err := uuid.Parse(ctx.Param("edu_id"))
	if err != nil {
		return RespondError(ctx, ErrEntryNotFound)
	}

	return c.withOwnProfile(ctx, func(profile *Profile) error {
		return profile.RemoveEducation(entryID)
	})
}

func (c *ProfilesController) Subscribe(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	profileID, err := uuid.Parse(ctx.Param("profile_id"))
	if err != nil {
		return RespondError(ctx, ErrProfileNotFound)
	}

	profile, err := c.Repo.Profiles().GetByID(ctx.Context(), profileID)
	if err != nil {
		return RespondError(ctx, err)
	}

	if err := profile.Subscribe(uid); err != nil {
		return RespondError(ctx, err)
	}

	record, err := c.Repo.Profiles().Update(ctx.Context(), profile)
	if err != nil {
		c.Logger.Error("Profile subscribe", "error", err, "profile_id", profileID)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

func (c *ProfilesController) Unsubscribe(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	profileID, err := uuid.Parse(ctx.Param("profile_id"))
	if err != nil {
		return RespondError(ctx, ErrProfileNotFound)
	}

	profile, err := c.Repo.Profiles().GetByID(ctx.Context(), profileID)
	if err != nil {
		return RespondError(ctx, err)
	}

	if err := profile.Unsubscribe(uid); err != nil {
		return RespondError(ctx, err)
	}

	record, err := c.Repo.Profiles().Update(ctx.Context(), profile)
	if err != nil {
		c.Logger.Error("Profile unsubscribe", "error", err, "profile_id", profileID)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

// withOwnProfile loads the caller's profile, applies the mutation, and
// saves the whole document back.
func (c *ProfilesController) withOwnProfile(ctx router.Context, mutate func(*Profile) error) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	profile, err := c.Repo.Profiles().GetByUserID(ctx.Context(), uid)
	if err != nil {
		return RespondError(ctx, err)
	}

	if err := mutate(profile); err != nil {
		return RespondError(ctx, err)
	}

	record, err := c.Repo.Profiles().Update(ctx.Context(), profile)
	if err != nil {
		c.Logger.Error("Profile save", "error", err, "user_id", uid)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

func (c *ProfilesController) sessionUserID(ctx router.Context) (uuid.UUID, error) {
	session, err := GetRouterSession(ctx, c.Config.GetContextKey())
	if err != nil {
		return uuid.Nil, err
	}

	uid, err := session.GetUserUUID()
	if err != nil {
		return uuid.Nil, ErrUnableToDecodeSession
	}

	return uid, nil
}
