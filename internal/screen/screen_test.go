package screen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/state"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	matrix    = domain.Movie{ID: 603, Title: "The Matrix", PosterPath: "https://img/matrix.jpg"}
	fightClub = domain.Movie{ID: 550, Title: "Fight Club", PosterPath: "https://img/fight.jpg"}
	inception = domain.Movie{ID: 27205, Title: "Inception", PosterPath: "https://img/inception.jpg"}
)

// fakeMovies is an in-memory domain.MovieRepository
type fakeMovies struct {
	mu      sync.Mutex
	lists   []domain.Movie
	details map[int]domain.Movie
	err     error
	lookups []time.Time
	terms   []string
}

func newFakeMovies(movies ...domain.Movie) *fakeMovies {
	f := &fakeMovies{lists: movies, details: make(map[int]domain.Movie)}
	for _, m := range movies {
		f.details[m.ID] = m
	}
	return f
}

func (f *fakeMovies) list() ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Movie(nil), f.lists...), nil
}

func (f *fakeMovies) TrendingMovies(ctx context.Context) ([]domain.Movie, error) { return f.list() }
func (f *fakeMovies) PopularMovies(ctx context.Context) ([]domain.Movie, error)  { return f.list() }
func (f *fakeMovies) UpcomingMovies(ctx context.Context) ([]domain.Movie, error) { return f.list() }

func (f *fakeMovies) SearchMovies(ctx context.Context, term string) ([]domain.Movie, error) {
	f.mu.Lock()
	f.terms = append(f.terms, term)
	f.mu.Unlock()
	return f.list()
}

func (f *fakeMovies) MovieDetails(ctx context.Context, movieID int) (domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, time.Now())
	if f.err != nil {
		return domain.Movie{}, f.err
	}
	m, ok := f.details[movieID]
	if !ok {
		return domain.Movie{}, domain.ErrMovieNotFound
	}
	return m, nil
}

func (f *fakeMovies) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeMovies) lookupTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.lookups...)
}

func newUsers(t *testing.T) *user.Repository {
	t.Helper()
	favs, err := store.OpenFavorites("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { favs.Close() })

	prefs, err := store.OpenPreferences("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { prefs.Close() })

	return user.NewRepository(favs, prefs, filepath.Join(t.TempDir(), "pictures"), nil)
}

// waitFor blocks until obs holds a value satisfying ok
func waitFor[T any](t *testing.T, obs *state.Observable[T], ok func(T) bool) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var last T
	for v := range obs.Subscribe(ctx) {
		last = v
		if ok(v) {
			return v
		}
	}
	t.Fatalf("timed out, last value: %+v", last)
	return last
}

func succeeded[T any](s state.UIState[T]) bool { return s.IsSuccess() }
func failed[T any](s state.UIState[T]) bool    { return s.IsError() }

func TestDiscoverLoadsAllLists(t *testing.T) {
	movies := newFakeMovies(matrix, fightClub)
	d := NewDiscover(context.Background(), movies, false, nil)
	defer d.Close()

	assert.True(t, d.Trending().Value().IsLoading())
	d.Load()

	for _, obs := range []*state.Observable[MoviesState]{d.Trending(), d.Popular(), d.Upcoming()} {
		got := waitFor(t, obs, succeeded[[]domain.Movie])
		assert.Equal(t, []domain.Movie{matrix, fightClub}, got.Data)
	}
}

func TestDiscoverErrorState(t *testing.T) {
	movies := newFakeMovies()
	movies.setErr(&domain.HTTPError{StatusCode: 500, Status: "500 Internal Server Error"})
	d := NewDiscover(context.Background(), movies, false, nil)
	defer d.Close()

	d.Load()
	got := waitFor(t, d.Popular(), failed[[]domain.Movie])
	assert.Contains(t, got.Message, "500")
}

func TestDiscoverSearchRanksResults(t *testing.T) {
	movies := newFakeMovies(
		domain.Movie{ID: 1, Title: "The Fight Club Story"},
		domain.Movie{ID: 2, Title: "Unrelated"},
		fightClub,
	)
	d := NewDiscover(context.Background(), movies, true, nil)
	defer d.Close()

	assert.True(t, d.Searched().Value().IsSuccess(), "search starts idle")
	d.Search("fight club")

	got := waitFor(t, d.Searched(), func(s MoviesState) bool { return s.IsSuccess() && len(s.Data) == 3 })
	assert.Equal(t, fightClub.ID, got.Data[0].ID)
	assert.Equal(t, 2, got.Data[2].ID)
}

func TestDiscoverCloseStopsPublishing(t *testing.T) {
	movies := newFakeMovies(matrix)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDiscover(ctx, movies, false, nil)
	d.Close()
	d.Load()
	time.Sleep(50 * time.Millisecond)

	// A cancelled container never leaves Loading
	assert.True(t, d.Trending().Value().IsLoading())
}

func TestDetailsLoadAndToggleFavorite(t *testing.T) {
	movies := newFakeMovies(matrix)
	users := newUsers(t)
	d := NewDetails(context.Background(), movies, users, nil)
	defer d.Close()

	d.Load(matrix.ID)
	got := waitFor(t, d.Movie(), succeeded[domain.Movie])
	assert.Equal(t, matrix, got.Data)

	d.AddFavorite(matrix)
	waitFor(t, d.IsFavorite(), func(s state.UIState[bool]) bool { return s.IsSuccess() && s.Data })

	fav, err := users.IsFavorite(context.Background(), matrix.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	d.RemoveFavorite(matrix)
	waitFor(t, d.IsFavorite(), func(s state.UIState[bool]) bool { return s.IsSuccess() && !s.Data })
}

func TestDetailsRefreshIsFavorite(t *testing.T) {
	users := newUsers(t)
	require.NoError(t, users.InsertFavorite(context.Background(), fightClub.Favorite()))

	d := NewDetails(context.Background(), newFakeMovies(), users, nil)
	defer d.Close()

	d.RefreshIsFavorite(fightClub.ID)
	waitFor(t, d.IsFavorite(), func(s state.UIState[bool]) bool { return s.IsSuccess() && s.Data })
}

// slowFavoriteCheck blocks IsFavorite for one movie until release is closed
type slowFavoriteCheck struct {
	domain.UserRepository
	slowID  int
	release chan struct{}
}

func (s *slowFavoriteCheck) IsFavorite(ctx context.Context, movieID int) (bool, error) {
	if movieID == s.slowID {
		select {
		case <-s.release:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return s.UserRepository.IsFavorite(ctx, movieID)
}

func TestDetailsDoesNotCarryFavoriteAcrossMovies(t *testing.T) {
	users := &slowFavoriteCheck{UserRepository: newUsers(t), slowID: fightClub.ID, release: make(chan struct{})}
	require.NoError(t, users.InsertFavorite(context.Background(), matrix.Favorite()))

	d := NewDetails(context.Background(), newFakeMovies(), users, nil)
	defer d.Close()

	d.RefreshIsFavorite(matrix.ID)
	waitFor(t, d.IsFavorite(), func(s state.UIState[bool]) bool { return s.IsSuccess() && s.Data })

	d.RefreshIsFavorite(fightClub.ID)
	assert.True(t, d.IsFavorite().Value().IsLoading(), "answer for the previous movie must not be shown")

	close(users.release)
	got := waitFor(t, d.IsFavorite(), succeeded[bool])
	assert.False(t, got.Data)
}

func TestDetailsRefreshSameMovieKeepsAnswer(t *testing.T) {
	users := &slowFavoriteCheck{UserRepository: newUsers(t), slowID: matrix.ID, release: make(chan struct{})}
	require.NoError(t, users.InsertFavorite(context.Background(), matrix.Favorite()))

	d := NewDetails(context.Background(), newFakeMovies(), users, nil)
	defer d.Close()

	close(users.release)
	d.RefreshIsFavorite(matrix.ID)
	waitFor(t, d.IsFavorite(), func(s state.UIState[bool]) bool { return s.IsSuccess() && s.Data })

	users.release = make(chan struct{})
	d.RefreshIsFavorite(matrix.ID)
	got := d.IsFavorite().Value()
	assert.True(t, got.IsSuccess())
	assert.True(t, got.Data)
	close(users.release)
}

func TestDetailsNotFound(t *testing.T) {
	d := NewDetails(context.Background(), newFakeMovies(), newUsers(t), nil)
	defer d.Close()

	d.Load(42)
	got := waitFor(t, d.Movie(), failed[domain.Movie])
	assert.Equal(t, domain.ErrMovieNotFound.Error(), got.Message)
}

func TestFavoritesFollowsTableNewestFirst(t *testing.T) {
	movies := newFakeMovies(matrix, fightClub, inception)
	users := newUsers(t)
	ctx := context.Background()
	require.NoError(t, users.InsertFavorite(ctx, fightClub.Favorite()))
	require.NoError(t, users.InsertFavorite(ctx, matrix.Favorite()))

	f := NewFavorites(ctx, movies, users, 0, nil)
	defer f.Close()
	f.Load()

	got := waitFor(t, f.Favorites(), succeeded[[]domain.Movie])
	assert.Equal(t, []domain.Movie{matrix, fightClub}, got.Data)

	require.NoError(t, users.InsertFavorite(ctx, inception.Favorite()))
	got = waitFor(t, f.Favorites(), func(s MoviesState) bool { return s.IsSuccess() && len(s.Data) == 3 })
	assert.Equal(t, inception.ID, got.Data[0].ID)
}

func TestFavoritesPacesLookups(t *testing.T) {
	movies := newFakeMovies(matrix, fightClub, inception)
	users := newUsers(t)
	ctx := context.Background()
	for _, m := range []domain.Movie{matrix, fightClub, inception} {
		require.NoError(t, users.InsertFavorite(ctx, m.Favorite()))
	}

	delay := 40 * time.Millisecond
	f := NewFavorites(ctx, movies, users, delay, nil)
	defer f.Close()
	start := time.Now()
	f.Load()
	waitFor(t, f.Favorites(), succeeded[[]domain.Movie])

	times := movies.lookupTimes()
	require.Len(t, times, 3)
	assert.GreaterOrEqual(t, times[0].Sub(start), delay-5*time.Millisecond, "first lookup waits too")
	for i := 1; i < len(times); i++ {
		// Allow some slack for limiter token accounting
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), delay-5*time.Millisecond)
	}
}

func TestFavoritesSearch(t *testing.T) {
	movies := newFakeMovies(matrix, fightClub)
	users := newUsers(t)
	ctx := context.Background()
	require.NoError(t, users.InsertFavorite(ctx, matrix.Favorite()))
	require.NoError(t, users.InsertFavorite(ctx, fightClub.Favorite()))

	f := NewFavorites(ctx, movies, users, 0, nil)
	defer f.Close()
	f.Search("matr")

	got := waitFor(t, f.Searched(), func(s MoviesState) bool { return s.IsSuccess() && len(s.Data) > 0 })
	assert.Equal(t, []domain.Movie{matrix}, got.Data)
}

func TestFavoritesLookupFailure(t *testing.T) {
	movies := newFakeMovies(matrix)
	movies.setErr(domain.ErrSourceOffline)
	users := newUsers(t)
	require.NoError(t, users.InsertFavorite(context.Background(), matrix.Favorite()))

	f := NewFavorites(context.Background(), movies, users, 0, nil)
	defer f.Close()
	f.Load()

	got := waitFor(t, f.Favorites(), failed[[]domain.Movie])
	assert.Contains(t, got.Message, domain.ErrSourceOffline.Error())
}

func TestProfileFollowsPreferences(t *testing.T) {
	users := newUsers(t)
	ctx := context.Background()
	require.NoError(t, users.InsertFavorite(ctx, matrix.Favorite()))

	p := NewProfile(ctx, users, nil)
	defer p.Close()
	p.Load()

	name := waitFor(t, p.UserName(), succeeded[string])
	assert.Equal(t, "", name.Data)
	count := waitFor(t, p.FavoriteCount(), succeeded[int])
	assert.Equal(t, 1, count.Data)

	p.SetUserName("Ada")
	waitFor(t, p.UserName(), func(s state.UIState[string]) bool { return s.Data == "Ada" })

	require.NoError(t, users.InsertFavorite(ctx, fightClub.Favorite()))
	waitFor(t, p.FavoriteCount(), func(s state.UIState[int]) bool { return s.Data == 2 })
}

func TestProfilePictureImport(t *testing.T) {
	users := newUsers(t)
	p := NewProfile(context.Background(), users, nil)
	defer p.Close()
	p.Load()

	src := filepath.Join(t.TempDir(), "me.PNG")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0644))

	p.SetProfilePicture(src)
	got := waitFor(t, p.ProfilePicture(), func(s state.UIState[string]) bool { return s.IsSuccess() && s.Data != "" })
	assert.Contains(t, got.Data, "file://")
	assert.Contains(t, got.Data, "profile_picture_uri.png")

	waitFor(t, p.ProfileBackground(), succeeded[string])
	p.SetProfileBackground(filepath.Join(t.TempDir(), "missing.jpg"))
	waitFor(t, p.ProfileBackground(), failed[string])
}

func TestFieldIgnoresStaleResults(t *testing.T) {
	f := newField(state.Loading[int]())
	_, first := f.begin(context.Background(), true)
	_, second := f.begin(context.Background(), true)

	assert.False(t, f.publish(first, state.Success(1)))
	assert.True(t, f.publish(second, state.Success(2)))
	assert.Equal(t, 2, f.obs.Value().Data)

	f.fail(errors.New("boom"))
	assert.Equal(t, "boom", f.obs.Value().Message)
}
