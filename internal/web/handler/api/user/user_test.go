package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/db/controller/permission"
	"github.com/rbacadmin/rbac-admin/internal/db/controller/role"
	"github.com/rbacadmin/rbac-admin/internal/db/dbtest"
	"github.com/rbacadmin/rbac-admin/internal/db/models"
	"github.com/rbacadmin/rbac-admin/internal/web/handler"
	"github.com/rbacadmin/rbac-admin/internal/web/handler/handlertest"
)

const usersPath = handlertest.APIPrefix + Path

func setup(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()

	return dbtest.New(t), &Service{}
}

func TestService_CreateNeverReturnsPassword(t *testing.T) {
	db, svc := setup(t)
	app := handlertest.NewApp(t, db, svc)

	editor, err := role.Create(db, role.CreateInput{Name: "Editor"})
	require.NoError(t, err)

	status, body := handlertest.Do(t, app, http.MethodPost, usersPath, map[string]any{
		"name":     "Ann",
		"email":    "ann@example.com",
		"password": "secret123",
		"status":   "active",
		"roles":    map[string]any{"id": editor.ID},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.NotContains(t, string(body), "secret123")
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "argon2id")

	var created models.User
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, models.UserStatusActive, created.Status)
	require.NotNil(t, created.Role)
	assert.Equal(t, "Editor", created.Role.Name)

	for _, path := range []string{usersPath, fmt.Sprintf("%s/%d", usersPath, created.ID)} {
		status, body = handlertest.Do(t, app, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, status)
		assert.NotContains(t, string(body), "secret123", path)
		assert.NotContains(t, string(body), "argon2id", path)
	}

	var fetched map[string]any
	status = handlertest.DoJSON(t, app, http.MethodGet, fmt.Sprintf("%s/%d", usersPath, created.ID), nil, &fetched)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"id": float64(editor.ID), "name": "Editor"}, fetched["roles"])
}

func TestService_CreateRejectsInvalidInput(t *testing.T) {
	db, svc := setup(t)
	app := handlertest.NewApp(t, db, svc)

	testCases := []struct {
		name string
		body any
	}{
		{name: "malformed json", body: `{"name":`},
		{name: "missing password", body: map[string]any{"name": "a", "email": "a@example.com"}},
		{name: "invalid email", body: map[string]any{"name": "a", "email": "nope", "password": "pw"}},
		{name: "invalid status", body: map[string]any{"name": "a", "email": "a@example.com", "password": "pw", "status": "Banned"}},
		{name: "unknown role", body: map[string]any{"name": "a", "email": "a@example.com", "password": "pw", "role_id": 42}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var resp handler.ErrorResponse

			status := handlertest.DoJSON(t, app, http.MethodPost, usersPath, tc.body, &resp)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, handler.MsgInvalidRequest, resp.Error)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestService_CreateDuplicateEmail(t *testing.T) {
	db, svc := setup(t)
	app := handlertest.NewApp(t, db, svc)

	body := map[string]any{"name": "a", "email": "a@example.com", "password": "pw"}

	status, _ := handlertest.Do(t, app, http.MethodPost, usersPath, body)
	require.Equal(t, http.StatusOK, status)

	var resp handler.ErrorResponse

	status = handlertest.DoJSON(t, app, http.MethodPost, usersPath, body, &resp)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error creating user", resp.Error)
}

func TestService_GetUpdateDelete(t *testing.T) {
	db, svc := setup(t)
	app := handlertest.NewApp(t, db, svc)

	var created models.User

	status := handlertest.DoJSON(t, app, http.MethodPost, usersPath,
		map[string]any{"name": "Ann", "email": "ann@example.com", "password": "pw"}, &created)
	require.Equal(t, http.StatusOK, status)

	userPath := fmt.Sprintf("%s/%d", usersPath, created.ID)

	var updated models.User

	status = handlertest.DoJSON(t, app, http.MethodPut, userPath,
		map[string]any{"status": "INACTIVE", "name": "Anna"}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)
	assert.Equal(t, models.UserStatusInactive, updated.Status)

	var resp handler.ErrorResponse

	status = handlertest.DoJSON(t, app, http.MethodPut, userPath, map[string]any{"status": "Gone"}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)

	status = handlertest.DoJSON(t, app, http.MethodPut, usersPath+"/999", map[string]any{"name": "x"}, &resp)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error updating user", resp.Error)

	var msg handler.MessageResponse

	status = handlertest.DoJSON(t, app, http.MethodDelete, userPath, nil, &msg)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User deleted successfully", msg.Message)

	status = handlertest.DoJSON(t, app, http.MethodGet, userPath, nil, &resp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", resp.Error)

	status = handlertest.DoJSON(t, app, http.MethodDelete, userPath, nil, &msg)
	assert.Equal(t, http.StatusOK, status, "deleting a missing user succeeds")

	status = handlertest.DoJSON(t, app, http.MethodGet, usersPath+"/abc", nil, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestService_Permissions(t *testing.T) {
	db, svc := setup(t)
	app := handlertest.NewApp(t, db, svc)

	perms, err := permission.List(db)
	require.NoError(t, err)

	viewer, err := role.Create(db, role.CreateInput{Name: "Viewer", PermissionIDs: []uint{perms[0].ID, perms[4].ID}})
	require.NoError(t, err)

	var created models.User

	status := handlertest.DoJSON(t, app, http.MethodPost, usersPath,
		map[string]any{"name": "V", "email": "v@example.com", "password": "pw", "role_id": viewer.ID}, &created)
	require.Equal(t, http.StatusOK, status)

	var names []string

	status = handlertest.DoJSON(t, app, http.MethodGet, fmt.Sprintf("%s/%d/permissions", usersPath, created.ID), nil, &names)
	require.Equal(t, http.StatusOK, status)
	assert.ElementsMatch(t, []string{perms[0].Name, perms[4].Name}, names)

	// role_id 0 removes the role and with it every permission
	status = handlertest.DoJSON(t, app, http.MethodPut, fmt.Sprintf("%s/%d", usersPath, created.ID),
		map[string]any{"role_id": 0}, &created)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, created.RoleID)

	status = handlertest.DoJSON(t, app, http.MethodGet, fmt.Sprintf("%s/%d/permissions", usersPath, created.ID), nil, &names)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, names)

	var resp handler.ErrorResponse

	status = handlertest.DoJSON(t, app, http.MethodGet, usersPath+"/999/permissions", nil, &resp)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestService_HasPermission(t *testing.T) {
	db, svc := setup(t)
	app := handlertest.NewApp(t, db, svc)

	perms, err := permission.List(db)
	require.NoError(t, err)

	viewer, err := role.Create(db, role.CreateInput{Name: "Viewer", PermissionIDs: []uint{perms[0].ID}})
	require.NoError(t, err)

	var created models.User

	status := handlertest.DoJSON(t, app, http.MethodPost, usersPath,
		map[string]any{"name": "V", "email": "v@example.com", "password": "pw", "role_id": viewer.ID}, &created)
	require.Equal(t, http.StatusOK, status)

	testCases := []struct {
		name       string
		path       string
		wantStatus int
		want       PermissionCheck
	}{
		{
			name:       "granted",
			path:       fmt.Sprintf("%s/%d/permissions/%s", usersPath, created.ID, perms[0].Name),
			wantStatus: http.StatusOK,
			want:       PermissionCheck{Permission: perms[0].Name, Granted: true},
		},
		{
			name:       "not granted",
			path:       fmt.Sprintf("%s/%d/permissions/%s", usersPath, created.ID, perms[1].Name),
			wantStatus: http.StatusOK,
			want:       PermissionCheck{Permission: perms[1].Name},
		},
		{
			name:       "unknown permission",
			path:       fmt.Sprintf("%s/%d/permissions/fly", usersPath, created.ID),
			wantStatus: http.StatusOK,
			want:       PermissionCheck{Permission: "fly"},
		},
		{
			name:       "unknown user",
			path:       usersPath + "/999/permissions/" + perms[0].Name,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			path:       usersPath + "/abc/permissions/" + perms[0].Name,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got PermissionCheck

			status, body := handlertest.Do(t, app, http.MethodGet, tc.path, nil)
			require.Equal(t, tc.wantStatus, status, string(body))

			if tc.wantStatus != http.StatusOK {
				return
			}

			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
