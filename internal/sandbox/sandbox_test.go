package sandbox

import (
	"strings"
	"testing"

	"github.com/Project-Sylos/Courier/internal/config"
	"github.com/Project-Sylos/Courier/internal/db"
	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "sandbox-token"

func newTestSandbox(t *testing.T, seed types.SeedConfig) *Sandbox {
	t.Helper()
	database, err := db.New("")
	require.NoError(t, err)

	cfg := config.DefaultConfig().Sandbox
	cfg.Token = token
	cfg.Seed = seed

	s, err := New(database, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func rootFolder(t *testing.T, s *Sandbox) string {
	t.Helper()
	details, err := s.GetAccountDetails(token, false)
	require.NoError(t, err)
	return details["rootFolder"].(string)
}

func requireStatus(t *testing.T, err error, status string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, StatusOf(err), "error: %v", err)
}

func TestNew(t *testing.T) {
	database, err := db.New("")
	require.NoError(t, err)
	defer database.Close()

	cfg := config.DefaultConfig().Sandbox

	_, err = New(database, types.SandboxConfig{Server: "s"}, nil)
	assert.Error(t, err, "empty token")
	_, err = New(database, types.SandboxConfig{Token: "t"}, nil)
	assert.Error(t, err, "empty server")

	first, err := New(database, cfg, nil)
	require.NoError(t, err)
	second, err := New(database, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, rootFolder(t, first), rootFolder(t, second), "account is created once")
	assert.Equal(t, cfg.Server, first.Server())
}

func TestAuthentication(t *testing.T) {
	s := newTestSandbox(t, types.SeedConfig{})
	root := rootFolder(t, s)

	_, err := s.GetContent("", root)
	requireStatus(t, err, types.StatusNoAuth)

	_, err = s.GetContent("bogus", root)
	requireStatus(t, err, types.StatusAuth)

	_, err = s.GetContent(token, "missing")
	requireStatus(t, err, types.StatusNotFound)

	// A guest upload creates a second account whose content is foreign
	result, err := s.UploadFile(s.Server(), "", "", "guest.txt", strings.NewReader("x"))
	require.NoError(t, err)
	require.NotEmpty(t, result.GuestToken)

	_, err = s.GetContent(token, result.ParentFolder)
	requireStatus(t, err, types.StatusAuth)

	guestRoot, err := s.GetContent(result.GuestToken, result.ParentFolder)
	require.NoError(t, err)
	assert.Contains(t, guestRoot.Contents, result.FileID)
}

func TestCreateFolderAndGetContent(t *testing.T) {
	s := newTestSandbox(t, types.SeedConfig{})
	root := rootFolder(t, s)

	folder, err := s.CreateFolder(token, root, "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", folder.Name)
	assert.Equal(t, root, folder.ParentFolder)
	assert.NotEmpty(t, folder.Code)

	_, err = s.CreateFolder(token, root, "  ")
	requireStatus(t, err, types.StatusBadRequest)

	upload, err := s.UploadFile(s.Server(), token, folder.ID, "a.txt", strings.NewReader("hello world"))
	require.NoError(t, err)

	_, err = s.CreateFolder(token, upload.FileID, "below a file")
	requireStatus(t, err, types.StatusBadRequest)

	content, err := s.GetContent(token, root)
	require.NoError(t, err)
	assert.True(t, content.IsFolder())
	assert.Equal(t, []string{folder.ID}, content.Childs)

	docs, err := s.GetContent(token, folder.ID)
	require.NoError(t, err)
	require.Contains(t, docs.Contents, upload.FileID)
	file := docs.Contents[upload.FileID]
	assert.Equal(t, "a.txt", file.Name)
	assert.EqualValues(t, 11, file.Size)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", file.MD5)
	assert.Equal(t, "text/plain; charset=utf-8", file.MimeType)
	assert.EqualValues(t, 11, docs.TotalSize)

	single, err := s.GetContent(token, upload.FileID)
	require.NoError(t, err)
	assert.False(t, single.IsFolder())
}

func TestUploadFile(t *testing.T) {
	s := newTestSandbox(t, types.SeedConfig{})
	root := rootFolder(t, s)

	result, err := s.UploadFile(s.Server(), token, "", "report.bin", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, root, result.ParentFolder)
	assert.Empty(t, result.GuestToken)
	assert.Contains(t, result.DownloadPage, "/d/"+result.Code)

	_, err = s.UploadFile("store9", token, "", "a.txt", strings.NewReader("x"))
	requireStatus(t, err, types.StatusWrongServer)

	_, err = s.UploadFile(s.Server(), "", root, "a.txt", strings.NewReader("x"))
	requireStatus(t, err, types.StatusNoAuth)

	_, err = s.UploadFile(s.Server(), token, "", "", strings.NewReader("x"))
	requireStatus(t, err, types.StatusBadRequest)

	_, err = s.UploadFile(s.Server(), token, "missing", "a.txt", strings.NewReader("x"))
	requireStatus(t, err, types.StatusNotFound)
}

func TestSetFolderOption(t *testing.T) {
	s := newTestSandbox(t, types.SeedConfig{})
	root := rootFolder(t, s)
	folder, err := s.CreateFolder(token, root, "shared")
	require.NoError(t, err)

	require.NoError(t, s.SetFolderOption(token, folder.ID, types.OptionPublic, "true"))
	require.NoError(t, s.SetFolderOption(token, folder.ID, types.OptionTags, " a, b ,,c"))
	require.NoError(t, s.SetFolderOption(token, folder.ID, types.OptionExpire, "1700000000"))
	require.NoError(t, s.SetFolderOption(token, folder.ID, types.OptionPassword, "secret"))
	require.NoError(t, s.SetFolderOption(token, folder.ID, types.OptionDescription, "team files"))

	content, err := s.GetContent(token, folder.ID)
	require.NoError(t, err)
	assert.True(t, content.Public)
	assert.Equal(t, "a,b,c", content.Tags)
	assert.EqualValues(t, 1700000000, content.Expire)
	assert.True(t, content.Password)
	assert.Equal(t, "team files", content.Description)

	tests := []struct {
		name   string
		option string
		value  string
	}{
		{name: "unknown option", option: "color", value: "red"},
		{name: "bad bool", option: types.OptionPublic, value: "maybe"},
		{name: "bad expire", option: types.OptionExpire, value: "tomorrow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetFolderOption(token, folder.ID, tt.option, tt.value)
			requireStatus(t, err, types.StatusBadRequest)
		})
	}
}

func TestCopyContent(t *testing.T) {
	s := newTestSandbox(t, types.SeedConfig{})
	root := rootFolder(t, s)

	src, err := s.CreateFolder(token, root, "src")
	require.NoError(t, err)
	inner, err := s.CreateFolder(token, src.ID, "inner")
	require.NoError(t, err)
	_, err = s.UploadFile(s.Server(), token, inner.ID, "deep.txt", strings.NewReader("abc"))
	require.NoError(t, err)
	dest, err := s.CreateFolder(token, root, "dest")
	require.NoError(t, err)

	require.NoError(t, s.CopyContent(token, []string{src.ID}, dest.ID))

	destContent, err := s.GetContent(token, dest.ID)
	require.NoError(t, err)
	require.Len(t, destContent.Childs, 1)
	copied := destContent.Contents[destContent.Childs[0]]
	assert.Equal(t, "src", copied.Name)
	assert.NotEqual(t, src.ID, copied.ID)
	assert.NotEqual(t, src.Code, copied.Code)

	copiedSrc, err := s.GetContent(token, copied.ID)
	require.NoError(t, err)
	require.Len(t, copiedSrc.Childs, 1)
	copiedInner, err := s.GetContent(token, copiedSrc.Childs[0])
	require.NoError(t, err)
	assert.Equal(t, "inner", copiedInner.Name)
	require.Len(t, copiedInner.Childs, 1)

	details, err := s.GetAccountDetails(token, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, details["filesCount"])
	assert.EqualValues(t, 6, details["totalSize"])
	assert.EqualValues(t, 5, details["foldersCount"])

	err = s.CopyContent(token, []string{src.ID}, "missing")
	requireStatus(t, err, types.StatusNotFound)
	err = s.CopyContent(token, nil, dest.ID)
	requireStatus(t, err, types.StatusBadRequest)
}

func TestDeleteContent(t *testing.T) {
	s := newTestSandbox(t, types.SeedConfig{})
	root := rootFolder(t, s)

	folder, err := s.CreateFolder(token, root, "trash")
	require.NoError(t, err)
	upload, err := s.UploadFile(s.Server(), token, folder.ID, "x.txt", strings.NewReader("x"))
	require.NoError(t, err)

	result, err := s.DeleteContent(token, []string{folder.ID, "missing", root})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		folder.ID: types.StatusOK,
		"missing": types.StatusNotFound,
		root:      types.StatusBadRequest,
	}, result)

	_, err = s.GetContent(token, upload.FileID)
	requireStatus(t, err, types.StatusNotFound)

	_, err = s.DeleteContent("bogus", []string{root})
	requireStatus(t, err, types.StatusAuth)
}

func TestAccountDetails(t *testing.T) {
	s := newTestSandbox(t, types.SeedConfig{})

	details, err := s.GetAccountDetails(token, false)
	require.NoError(t, err)
	assert.Equal(t, token, details["token"])
	assert.Equal(t, types.TierStandard, details["tier"])
	assert.EqualValues(t, 0, details["filesCount"])
	assert.NotContains(t, details, "foldersCount")

	all, err := s.GetAccountDetails(token, true)
	require.NoError(t, err)
	assert.Contains(t, all, "foldersCount")
	assert.Contains(t, all, "createTime")
}

func TestSeedAndReset(t *testing.T) {
	s := newTestSandbox(t, types.SeedConfig{MaxDepth: 2, MinFolders: 1, MaxFolders: 2, MinFiles: 1, MaxFiles: 2, Seed: 7})

	created, err := s.Seed()
	require.NoError(t, err)
	assert.Greater(t, created, 0)

	again, err := s.Seed()
	require.NoError(t, err)
	assert.Zero(t, again, "a non-empty root is left alone")

	details, err := s.GetAccountDetails(token, true)
	require.NoError(t, err)
	assert.EqualValues(t, created, details["filesCount"].(int64)+details["foldersCount"].(int64))

	oldRoot := details["rootFolder"].(string)
	require.NoError(t, s.Reset())

	details, err = s.GetAccountDetails(token, true)
	require.NoError(t, err)
	assert.NotEqual(t, oldRoot, details["rootFolder"])
	assert.EqualValues(t, 0, details["filesCount"])

	reseeded, err := s.Seed()
	require.NoError(t, err)
	assert.Equal(t, created, reseeded, "same seed, same tree")
}
