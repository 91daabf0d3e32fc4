package handlers

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errBadUpload = errors.New("unsupported upload type")

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// saveUpload stores the multipart file under field in dir and returns its public
// path ("uploads/<name>"). It returns nil, nil when no file was sent.
func saveUpload(c *fiber.Ctx, field, dir string) (*string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return nil, errBadUpload
	}
	name := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:8] + ext
	if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
		return nil, err
	}
	public := "uploads/" + name
	return &public, nil
}
