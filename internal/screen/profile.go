package screen

import (
	"context"
	"log/slog"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/state"
)

// Profile backs the user profile screen. Each field follows its preference
// key, so a setter only has to write and the new value flows back.
type Profile struct {
	ctx    context.Context
	users  domain.UserRepository
	logger *slog.Logger

	userName          *field[string]
	profilePicture    *field[string]
	profileBackground *field[string]
	favoriteCount     *field[int]
}

// NewProfile creates the profile container. Actions stop when ctx is done.
func NewProfile(ctx context.Context, users domain.UserRepository, logger *slog.Logger) *Profile {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profile{
		ctx:               ctx,
		users:             users,
		logger:            logger,
		userName:          newField(state.Loading[string]()),
		profilePicture:    newField(state.Loading[string]()),
		profileBackground: newField(state.Loading[string]()),
		favoriteCount:     newField(state.Loading[int]()),
	}
}

func (p *Profile) UserName() *state.Observable[state.UIState[string]]          { return p.userName.obs }
func (p *Profile) ProfilePicture() *state.Observable[state.UIState[string]]    { return p.profilePicture.obs }
func (p *Profile) ProfileBackground() *state.Observable[state.UIState[string]] { return p.profileBackground.obs }
func (p *Profile) FavoriteCount() *state.Observable[state.UIState[int]]        { return p.favoriteCount.obs }

// Load (re)starts following the three preference keys and the favorites count
func (p *Profile) Load() {
	p.followPreference(p.userName, domain.PrefUserName)
	p.followPreference(p.profilePicture, domain.PrefProfilePicture)
	p.followPreference(p.profileBackground, domain.PrefProfileBackground)

	ctx, gen := p.favoriteCount.begin(p.ctx, true)
	go follow(p.favoriteCount, gen, p.users.WatchCount(ctx))
}

// SetUserName stores a new user name
func (p *Profile) SetUserName(name string) {
	go func() {
		if err := p.users.SetPreference(domain.PrefUserName, name); err != nil {
			p.logger.Error("failed to save user name", "error", err)
			p.userName.fail(err)
		}
	}()
}

// SetProfilePicture imports the picture at path as the profile picture
func (p *Profile) SetProfilePicture(path string) {
	p.importPicture(p.profilePicture, domain.PrefProfilePicture, path)
}

// SetProfileBackground imports the picture at path as the profile background
func (p *Profile) SetProfileBackground(path string) {
	p.importPicture(p.profileBackground, domain.PrefProfileBackground, path)
}

// Close stops every action in flight
func (p *Profile) Close() {
	p.userName.stop()
	p.profilePicture.stop()
	p.profileBackground.stop()
	p.favoriteCount.stop()
}

func (p *Profile) followPreference(f *field[string], key domain.PreferenceKey) {
	ctx, gen := f.begin(p.ctx, true)
	go follow(f, gen, p.users.WatchPreference(ctx, key, ""))
}

func (p *Profile) importPicture(f *field[string], key domain.PreferenceKey, path string) {
	go func() {
		if _, err := p.users.ImportPicture(key, path); err != nil {
			p.logger.Error("failed to import picture", "key", key, "path", path, "error", err)
			f.fail(err)
		}
	}()
}
