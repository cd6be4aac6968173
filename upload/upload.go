package upload

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devfolio/httperr"
	"devfolio/security"
)

type UploadModule struct {
	dir         string
	fallbackDir string
	maxSize     int64
	auth        *security.AuthModule
	log         zerolog.Logger
}

func NewUploadModule(dir, fallbackDir string, maxSize int64, auth *security.AuthModule, log zerolog.Logger) *UploadModule {
	return &UploadModule{
		dir:         dir,
		fallbackDir: fallbackDir,
		maxSize:     maxSize,
		auth:        auth,
		log:         log,
	}
}

func (m *UploadModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/upload/image", m.auth.RequireAdmin, m.upload)
	router.Static("/uploads", m.dir)
}

func (m *UploadModule) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		httperr.JSON(c, httperr.NewValidation("file is required", []string{"file"}))
		return
	}

	if file.Size > m.maxSize {
		httperr.JSON(c, httperr.NewValidation(
			fmt.Sprintf("file exceeds the %d MB limit", m.maxSize/(1024*1024)), nil))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httperr.JSON(c, httperr.NewValidation("only image uploads are accepted", nil))
		return
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	// Primary storage first; if that directory is unwritable fall back to the
	// local public directory so the editor keeps working.
	storage := "primary"
	if err := m.save(c, file, m.dir, name); err != nil {
		m.log.Warn().Err(err).Str("dir", m.dir).Msg("primary upload failed, using fallback")
		storage = "fallback"
		if err := m.save(c, file, m.fallbackDir, name); err != nil {
			httperr.JSON(c, httperr.NewInternal(err))
			return
		}
	}

	m.log.Info().Str("filename", name).Int64("size", file.Size).
		Str("storage", storage).Msg("image uploaded")

	c.JSON(http.StatusOK, gin.H{
		"url":      "/uploads/" + name,
		"filename": name,
		"size":     file.Size,
		"type":     contentType,
		"storage":  storage,
	})
}

func (m *UploadModule) save(c *gin.Context, file *multipart.FileHeader, dir, name string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return c.SaveUploadedFile(file, filepath.Join(dir, name))
}
