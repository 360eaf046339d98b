package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/db/dbtest"
	"github.com/rbacadmin/rbac-admin/internal/db/models"
)

// seedPermissions inserts named permissions and returns their ids in order.
func seedPermissions(t *testing.T, db *gorm.DB, names ...string) []uint {
	t.Helper()

	ids := make([]uint, 0, len(names))

	for _, name := range names {
		p := models.Permission{Name: name}
		require.NoError(t, db.Create(&p).Error, "failed to seed permission")

		ids = append(ids, p.ID)
	}

	return ids
}

func permissionIDs(role *models.Role) []uint {
	out := make([]uint, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		out = append(out, p.ID)
	}

	return out
}

func joinRows(t *testing.T, db *gorm.DB, roleID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.RolePermission{}).Where("role_id = ?", roleID).Count(&count).Error)

	return count
}

func TestCreate_WithPermissions(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1", "p2", "p3")

	role, err := Create(db, CreateInput{Name: "Editor", Description: "d", PermissionIDs: []uint{ids[0], ids[1]}})
	require.NoError(t, err)

	assert.Equal(t, "Editor", role.Name)
	assert.Equal(t, "d", role.Description)
	assert.ElementsMatch(t, []uint{ids[0], ids[1]}, permissionIDs(role))

	got := make([]string, 0)
	for _, p := range role.Permissions {
		got = append(got, p.Name)
	}

	assert.ElementsMatch(t, []string{"p1", "p2"}, got)
}

func TestCreate_WithoutPermissions(t *testing.T) {
	db := dbtest.New(t)

	role, err := Create(db, CreateInput{Name: "Viewer"})
	require.NoError(t, err)
	assert.NotNil(t, role.Permissions)
	assert.Empty(t, role.Permissions)

	_, err = Create(db, CreateInput{})
	require.ErrorIs(t, err, ErrRoleNameEmpty)
}

func TestCreate_UnknownPermissionRollsBack(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1")

	_, err := Create(db, CreateInput{Name: "Broken", PermissionIDs: []uint{ids[0], 4242}})
	require.ErrorIs(t, err, ErrUnknownPermission)

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Where("name = ?", "Broken").Count(&count).Error)
	assert.Zero(t, count, "role insert must be rolled back")
}

func TestSetPermissions_SetEquality(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1", "p2", "p3", "p4")

	role, err := Create(db, CreateInput{Name: "Editor", PermissionIDs: []uint{ids[0]}})
	require.NoError(t, err)

	testCases := []struct {
		name  string
		input []uint
		want  []uint
	}{
		{name: "replace with two", input: []uint{ids[2], ids[1]}, want: []uint{ids[1], ids[2]}},
		{name: "all four", input: ids, want: ids},
		{name: "duplicates collapse", input: []uint{ids[3], ids[3], ids[0]}, want: []uint{ids[0], ids[3]}},
		{name: "empty revokes all", input: []uint{}, want: []uint{}},
		{name: "nil revokes all", input: nil, want: []uint{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			updated, err := SetPermissions(db, role.ID, tc.input)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, permissionIDs(updated))

			// read back independently
			reread, err := Get(db, role.ID)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, permissionIDs(reread))
			assert.Equal(t, int64(len(tc.want)), joinRows(t, db, role.ID))
		})
	}
}

func TestSetPermissions_Idempotent(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1", "p2")

	role, err := Create(db, CreateInput{Name: "Editor"})
	require.NoError(t, err)

	first, err := SetPermissions(db, role.ID, ids)
	require.NoError(t, err)

	second, err := SetPermissions(db, role.ID, ids)
	require.NoError(t, err)

	assert.ElementsMatch(t, ids, permissionIDs(first))
	assert.ElementsMatch(t, permissionIDs(first), permissionIDs(second))
	assert.Equal(t, int64(2), joinRows(t, db, role.ID))
}

func TestSetPermissions_Errors(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1", "p2")

	role, err := Create(db, CreateInput{Name: "Editor", PermissionIDs: ids})
	require.NoError(t, err)

	_, err = SetPermissions(db, 999, ids)
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = SetPermissions(db, role.ID, []uint{ids[0], 999})
	require.ErrorIs(t, err, ErrUnknownPermission)

	// failed resync keeps the previous set
	reread, err := Get(db, role.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, permissionIDs(reread))

	_, err = SetPermissions(nil, role.ID, ids)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestSetPermissions_DoesNotTouchOtherRoles(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1", "p2")

	a, err := Create(db, CreateInput{Name: "A", PermissionIDs: ids})
	require.NoError(t, err)

	b, err := Create(db, CreateInput{Name: "B", PermissionIDs: ids})
	require.NoError(t, err)

	_, err = SetPermissions(db, a.ID, nil)
	require.NoError(t, err)

	reread, err := Get(db, b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, permissionIDs(reread))
}

func TestUpdate(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1", "p2")

	role, err := Create(db, CreateInput{Name: "Editor", Description: "old", PermissionIDs: ids})
	require.NoError(t, err)

	desc := "new"
	updated, err := Update(db, role.ID, UpdateInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Editor", updated.Name)
	assert.Equal(t, "new", updated.Description)
	assert.ElementsMatch(t, ids, permissionIDs(updated), "absent permission list keeps the set")

	name := "Writer"
	only := []uint{ids[1]}
	updated, err = Update(db, role.ID, UpdateInput{Name: &name, PermissionIDs: &only})
	require.NoError(t, err)
	assert.Equal(t, "Writer", updated.Name)
	assert.ElementsMatch(t, only, permissionIDs(updated))

	none := []uint{}
	updated, err = Update(db, role.ID, UpdateInput{PermissionIDs: &none})
	require.NoError(t, err)
	assert.Empty(t, updated.Permissions)

	_, err = Update(db, 999, UpdateInput{Name: &name})
	require.ErrorIs(t, err, ErrRoleNotFound)

	empty := ""
	_, err = Update(db, role.ID, UpdateInput{Name: &empty})
	require.ErrorIs(t, err, ErrRoleNameEmpty)
}

func TestList(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1", "p2")

	empty, err := List(db)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = Create(db, CreateInput{Name: "A", PermissionIDs: ids})
	require.NoError(t, err)
	_, err = Create(db, CreateInput{Name: "B"})
	require.NoError(t, err)

	roles, err := List(db)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "A", roles[0].Name)
	assert.Len(t, roles[0].Permissions, 2)
	assert.Equal(t, "B", roles[1].Name)
	assert.NotNil(t, roles[1].Permissions)
	assert.Empty(t, roles[1].Permissions)
}

func TestDelete_Cascades(t *testing.T) {
	db := dbtest.New(t)
	ids := seedPermissions(t, db, "p1", "p2")

	role, err := Create(db, CreateInput{Name: "Editor", PermissionIDs: ids})
	require.NoError(t, err)

	user := models.User{Name: "Ann", Email: "ann@example.com", Password: "x", RoleID: &role.ID, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, Delete(db, role.ID))

	_, err = Get(db, role.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)
	assert.Zero(t, joinRows(t, db, role.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Nil(t, reloaded.RoleID)

	// permissions themselves survive
	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// deleting a missing role succeeds
	require.NoError(t, Delete(db, role.ID))
}
