package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/reisy1999/musatoku-thanks/internal/dto"
	pkgerrors "github.com/reisy1999/musatoku-thanks/pkg/errors"
)

func TestSearch(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.user(t, "000001", "ﾃｽﾄｲﾁ", nil)
	env.user(t, "000002", "ﾃｽﾄﾆ", nil)
	retired := env.user(t, "000003", "ﾃｽﾄｻﾝ", nil)
	require.NoError(t, env.repo.User.Deactivate(ctx, retired.ID))

	t.Run("少于两个字符返回空列表", func(t *testing.T) {
		got, err := env.svc.User.Search(ctx, " ﾃ ")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("全角查询词按半角匹配", func(t *testing.T) {
		got, err := env.svc.User.Search(ctx, "テスト")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "000001", got[0].EmployeeID)
		assert.Equal(t, "000002", got[1].EmployeeID)
	})

	t.Run("不匹配", func(t *testing.T) {
		got, err := env.svc.User.Search(ctx, "ﾔﾏﾀﾞ")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGetMe(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	d := env.dept(t, "2A病棟")
	u := env.user(t, "000001", "ﾃｽﾄｲﾁ", d)

	me, err := env.svc.User.GetMe(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
	require.NotNil(t, me.DepartmentName)
	assert.Equal(t, "2A病棟", *me.DepartmentName)

	_, err = env.svc.User.GetMe(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	d := env.dept(t, "3B病棟")

	resp, err := env.svc.User.CreateUser(ctx, &dto.CreateUserRequest{
		EmployeeID:   "100001",
		Name:         "ヤマダ",
		Password:     "secret",
		DepartmentID: &d.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ﾔﾏﾀﾞ", resp.KanaName)
	assert.Equal(t, "ヤマダ", resp.DisplayName)
	assert.True(t, resp.IsActive)
	require.NotNil(t, resp.DepartmentName)
	assert.Equal(t, "3B病棟", *resp.DepartmentName)

	_, err = env.svc.User.CreateUser(ctx, &dto.CreateUserRequest{EmployeeID: "100001", Name: "x", Password: "x"})
	assert.ErrorIs(t, err, ErrEmployeeIDExists)
	assert.ErrorIs(t, err, pkgerrors.ErrConflict)

	_, err = env.svc.User.CreateUser(ctx, &dto.CreateUserRequest{EmployeeID: "100002", Name: "x", Password: "x", DepartmentID: uintPtr(999)})
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestDeactivate(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := env.user(t, "999999", "ｶﾝﾘ", nil)
	u := env.user(t, "000001", "ﾃｽﾄｲﾁ", nil)
	post, err := env.svc.Post.Create(ctx, u.ID, &dto.CreatePostRequest{Content: "ありがとう"})
	require.NoError(t, err)

	require.NoError(t, env.svc.User.Deactivate(ctx, u.ID, admin.ID))

	_, err = env.repo.User.GetByEmployeeID(ctx, "000001")
	assert.Error(t, err, "停用后按社员编号查询在职用户应为 not found")

	row := env.reload(t, u.ID)
	assert.False(t, row.IsActive)

	posts, err := env.svc.Post.List(ctx, nil, &dto.PostListRequest{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	assert.ErrorIs(t, env.svc.User.Deactivate(ctx, admin.ID, admin.ID), ErrUserSelfDeactivate)
	assert.ErrorIs(t, env.svc.User.Deactivate(ctx, 9999, admin.ID), ErrUserNotFound)
}

func TestListUsers_IsLoggedIn(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	online := env.user(t, "000001", "ﾃｽﾄｲﾁ", nil)
	offline := env.user(t, "000002", "ﾃｽﾄﾆ", nil)
	require.NoError(t, env.repo.User.TouchLastSeen(ctx, online.ID, time.Now().UTC()))
	require.NoError(t, env.repo.User.TouchLastSeen(ctx, offline.ID, time.Now().UTC().Add(-time.Hour)))

	users, err := env.svc.User.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := map[uint]dto.AdminUserResponse{}
	for _, u := range users {
		byID[u.ID] = u
	}
	assert.True(t, byID[online.ID].IsLoggedIn)
	assert.False(t, byID[offline.ID].IsLoggedIn)
}

func TestTopUsers(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.user(t, "000001", "ｴｰ", nil)
	b := env.user(t, "000002", "ﾋﾞｰ", nil)

	_, err := env.svc.Post.Create(ctx, a.ID, &dto.CreatePostRequest{Content: "感謝", MentionUserIDs: []uint{b.ID}})
	require.NoError(t, err)

	top, err := env.svc.User.TopUsers(ctx, "appreciated", 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, b.ID, top[0].ID)
	assert.Equal(t, 1, top[0].AppreciatedCount)

	top, err = env.svc.User.TopUsers(ctx, "expressed", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, a.ID, top[0].ID)

	_, err = env.svc.User.TopUsers(ctx, "posts", 10)
	assert.ErrorIs(t, err, ErrInvalidCounter)
}

// ── 导入 ──

func TestImportUsers_MixedRows(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.user(t, "000001", "ﾃｽﾄｲﾁ", nil)

	file := "user_id,name,department,email\n" +
		"200001,ヤマダ,2A病棟,yamada@example.com\n" +
		"000001,テストイチ,2A病棟,test1@example.com\n" +
		",スズキ,2A病棟,suzuki@example.com\n"

	rows, err := env.svc.User.ParseImportFile("users.csv", strings.NewReader(file))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	resp, err := env.svc.User.ImportUsers(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Added)
	assert.Equal(t, 2, resp.Skipped)
	// 重复行カナ一致不记录，缺 user_id 行记录
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "第 4 行")

	created, err := env.repo.User.GetByEmployeeID(ctx, "200001")
	require.NoError(t, err)
	assert.Equal(t, "ﾔﾏﾀﾞ", created.Name)
	assert.True(t, env.hasher.Verify("200001", created.HashedPassword))
	require.NotNil(t, created.DepartmentID)

	dept, err := env.repo.Department.GetByName(ctx, "2A病棟")
	require.NoError(t, err)
	assert.Equal(t, dept.ID, *created.DepartmentID)
}

func TestImportUsers_KanaMismatchNote(t *testing.T) {
	env := newTestEnv(t, nil)
	env.user(t, "000001", "ﾃｽﾄｲﾁ", nil)

	rows := []dto.ImportUserRow{
		{Line: 2, UserID: "000001", Name: "ベツジン", Department: "総務", Email: "a@example.com"},
		{Line: 3, UserID: "300001", Name: "アオキ", Department: "総務", Email: "b@example.com"},
		{Line: 4, UserID: "300001", Name: "アオキ", Department: "総務", Email: "b@example.com"},
	}
	resp, err := env.svc.User.ImportUsers(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Added)
	assert.Equal(t, 2, resp.Skipped)
	require.Len(t, resp.Errors, 2)
	assert.Contains(t, resp.Errors[0], "ﾃｽﾄｲﾁ")
	assert.Contains(t, resp.Errors[1], "第 4 行")
}

func TestParseImportFile(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("BOM 与列序无关", func(t *testing.T) {
		file := "\ufeffemail,department,name,user_id,display_name\n" +
			"a@example.com,情報システム,タナカ,400001,田中\n\n"
		rows, err := env.svc.User.ParseImportFile("u.csv", strings.NewReader(file))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "400001", rows[0].UserID)
		assert.Equal(t, "田中", rows[0].DisplayName)
		assert.Equal(t, 2, rows[0].Line)
	})

	t.Run("非 UTF-8", func(t *testing.T) {
		// Shift_JIS の「テスト」
		file := []byte("user_id,name,department,email\n1,\x83\x65\x83\x58\x83\x67,d,e\n")
		_, err := env.svc.User.ParseImportFile("u.csv", bytes.NewReader(file))
		assert.ErrorIs(t, err, ErrImportNotUTF8)
		assert.ErrorIs(t, err, pkgerrors.ErrValidation)
		assert.Contains(t, err.Error(), "UTF-8")
	})

	t.Run("缺少必需列", func(t *testing.T) {
		_, err := env.svc.User.ParseImportFile("u.csv", strings.NewReader("user_id,name,email\n1,a,b\n"))
		assert.ErrorIs(t, err, ErrImportBadHeader)
	})

	t.Run("不支持的扩展名", func(t *testing.T) {
		_, err := env.svc.User.ParseImportFile("u.json", strings.NewReader("{}"))
		assert.ErrorIs(t, err, ErrImportUnsupported)
	})

	t.Run("xlsx", func(t *testing.T) {
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"user_id", "name", "department", "email"}))
		require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"500001", "イトウ", "3B病棟", "ito@example.com"}))
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		require.NoError(t, f.Close())

		rows, err := env.svc.User.ParseImportFile("users.XLSX", buf)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "イトウ", rows[0].Name)
	})
}

// ── 导出 ──

func TestExportUsers_CSV(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	d := env.dept(t, "情報システム")
	admin := env.user(t, "999999", "ｶﾝﾘ", d)
	admin.IsAdmin = true
	require.NoError(t, env.repo.User.Update(ctx, admin))
	retired := env.user(t, "000001", "ﾃｽﾄｲﾁ", nil)
	require.NoError(t, env.repo.User.Deactivate(ctx, retired.ID))

	file, err := env.svc.Export.ExportUsers(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "users.csv", file.Filename)
	assert.True(t, strings.HasPrefix(file.ContentType, "text/csv"))
	require.True(t, bytes.HasPrefix(file.Data, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(file.Data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{"1", "999999", "ｶﾝﾘ", "ｶﾝﾘ", "情報システム", "管理者", "在籍"}, records[1])
	assert.Equal(t, []string{"2", "000001", "ﾃｽﾄｲﾁ", "ﾃｽﾄｲﾁ", "", "一般", "退職"}, records[2])
}

func TestExportUsers_XLSX(t *testing.T) {
	env := newTestEnv(t, nil)
	env.user(t, "000001", "ﾃｽﾄｲﾁ", nil)

	file, err := env.svc.Export.ExportUsers(context.Background(), "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "users.xlsx", file.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("users")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeader, rows[0])

	_, err = env.svc.Export.ExportUsers(context.Background(), "pdf")
	assert.ErrorIs(t, err, ErrExportUnknownFormat)
}
