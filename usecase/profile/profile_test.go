package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/internal/testutil"
)

func validInput() Input {
	return Input{
		Name:     "Nora",
		Email:    "nora@example.com",
		Bio:      "Retired carpenter",
		Role:     domain.RoleHelper,
		Location: domain.Location{Lat: 40.4168, Lng: -3.7038, Address: "Puerta del Sol"},
		Skills:   []string{" carpentry ", "", "carpentry", "painting"},
	}
}

func TestCreateProfile(t *testing.T) {
	store := testutil.NewStore(t)
	uc := New(store, 0, nil)
	ctx := context.Background()

	id, err := uc.CreateProfile(ctx, "nora", validInput())
	require.NoError(t, err)
	assert.Equal(t, "nora", id)

	user := testutil.GetUser(t, store, "nora")
	assert.Equal(t, "Nora", user.Name)
	assert.Equal(t, domain.RoleHelper, user.Role)
	assert.Equal(t, []string{"carpentry", "painting"}, user.Skills)
	assert.Equal(t, domain.DefaultRating, user.Rating)
	assert.Zero(t, user.ReviewCount)
	assert.Zero(t, user.TotalPoints)
	assert.True(t, user.Active)

	_, err = uc.CreateProfile(ctx, "nora", validInput())
	assert.ErrorIs(t, err, domain.ErrProfileExists)
}

func TestCreateProfile_CompletesPlaceholder(t *testing.T) {
	store := testutil.NewStore(t)
	uc := New(store, 0, nil)
	ctx := context.Background()
	require.NoError(t, store.Repositories().Users.Upsert(ctx, &domain.User{ID: "nora"}))

	current, err := uc.CurrentUser(ctx, "nora")
	require.NoError(t, err)
	assert.Nil(t, current, "placeholders are not reported as profiles")

	_, err = uc.CreateProfile(ctx, "nora", validInput())
	require.NoError(t, err)

	current, err = uc.CurrentUser(ctx, "nora")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "nora@example.com", current.Email)
}

func TestCreateProfile_Validation(t *testing.T) {
	uc := New(testutil.NewStore(t), 0, nil)
	ctx := context.Background()

	_, err := uc.CreateProfile(ctx, "", validInput())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	in := validInput()
	in.Email = " "
	_, err = uc.CreateProfile(ctx, "nora", in)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	in = validInput()
	in.Role = "admin"
	_, err = uc.CreateProfile(ctx, "nora", in)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestCurrentUser(t *testing.T) {
	store := testutil.NewStore(t)
	uc := New(store, 0, nil)
	ctx := context.Background()

	user, err := uc.CurrentUser(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = uc.CurrentUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = uc.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	store := testutil.NewStore(t)
	uc := New(store, 0, nil)
	ctx := context.Background()

	_, err := uc.UpdateProfile(ctx, "nora", Update{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.CreateProfile(ctx, "nora", validInput())
	require.NoError(t, err)

	bio := "Carpenter and gardener"
	role := domain.RoleBoth
	skills := []string{"gardening"}
	_, err = uc.UpdateProfile(ctx, "nora", Update{Bio: &bio, Role: &role, Skills: &skills})
	require.NoError(t, err)

	user := testutil.GetUser(t, store, "nora")
	assert.Equal(t, "Nora", user.Name)
	assert.Equal(t, bio, user.Bio)
	assert.Equal(t, domain.RoleBoth, user.Role)
	assert.Equal(t, skills, user.Skills)
	assert.Equal(t, "Puerta del Sol", user.Location.Address)

	blank := ""
	_, err = uc.UpdateProfile(ctx, "nora", Update{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	bad := domain.Role("admin")
	_, err = uc.UpdateProfile(ctx, "nora", Update{Role: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = uc.UpdateProfile(ctx, "", Update{Bio: &bio})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestNearbyHelpers(t *testing.T) {
	store := testutil.NewStore(t)
	uc := New(store, 0, nil)
	ctx := context.Background()

	inactive := testutil.Profile("idle", "Ivan", domain.RoleHelper, 40.417, -3.704)
	inactive.Active = false
	testutil.SeedUsers(t, store,
		testutil.Profile("near", "Nico", domain.RoleHelper, 40.420, -3.700),
		testutil.Profile("far", "Fran", domain.RoleHelper, 41.3851, 2.1734),
		testutil.Profile("seeker", "Sara", domain.RoleSeeker, 40.417, -3.704),
		testutil.Profile("both", "Bea", domain.RoleBoth, 40.417, -3.704),
		inactive,
	)

	helpers, err := uc.NearbyHelpers(ctx, NearbyQuery{Lat: 40.4168, Lng: -3.7038})
	require.NoError(t, err)
	require.Len(t, helpers, 1)
	assert.Equal(t, "near", helpers[0].ID)

	helpers, err = uc.NearbyHelpers(ctx, NearbyQuery{Lat: 0, Lng: 0, RadiusKm: 1})
	require.NoError(t, err)
	assert.NotNil(t, helpers)
	assert.Empty(t, helpers)
}

func TestNormalizeSkills(t *testing.T) {
	assert.Equal(t, []string{}, normalizeSkills(nil))
	assert.Equal(t, []string{"a", "b"}, normalizeSkills([]string{"a", " b", "a ", "  "}))
}
