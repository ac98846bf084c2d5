package api

import (
	"bufio"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/storage"
	"github.com/Spok95/showcase-judging/internal/validate"
)

// uploadTypes: принимаемые типы загрузок и расширение по умолчанию.
// Только то, что умеет декодировать сертификат.
var uploadTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// upload принимает multipart-поле "file" и возвращает публичный путь объекта.
func (h *handler) upload(c *gin.Context) {
	bucket := c.Param("bucket")
	if !storage.ValidBucket(bucket) {
		h.fail(c, "upload", storage.ErrUnknownBucket)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxObjectBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, "upload", validate.Invalid("multipart field \"file\" is required"))
		return
	}
	if fh.Size > storage.MaxObjectBytes {
		h.fail(c, "upload", storage.ErrTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, "upload", err)
		return
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 512)
	head, _ := br.Peek(512)
	ct := http.DetectContentType(head)
	defExt, ok := uploadTypes[ct]
	if !ok {
		h.fail(c, "upload", validate.Invalid("unsupported file type %s", ct))
		return
	}
	name := storage.NewObjectName(fh.Filename)
	if path.Ext(name) == "" {
		name += defExt
	}
	pub, err := h.Files.Put(bucket, name, br)
	if err != nil {
		h.fail(c, "upload", err)
		return
	}
	uid, _ := viewer(c)
	h.log.Info("file uploaded",
		zap.String("bucket", bucket),
		zap.String("name", name),
		zap.Int64("size", fh.Size),
		zap.String("profile_id", uid))
	c.JSON(http.StatusCreated, gin.H{"bucket": bucket, "name": name, "path": pub})
}

func (h *handler) serveFile(c *gin.Context) {
	p, err := h.Files.Path(c.Param("bucket"), c.Param("name"))
	if err != nil {
		h.fail(c, "serve file", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(p)
}
