package handler

import (
	"fmt"

	"xpense/internal/models"
	"xpense/internal/service"
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler exposes encrypted snapshots of the user's entries.
type BackupHandler struct {
	Backups *service.BackupService
}

func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{Backups: backups}
}

func backupResp(b *models.Backup) gin.H {
	return gin.H{
		"id":         b.ID,
		"file_name":  b.FileName,
		"size":       b.Size,
		"created_at": b.CreatedAt,
	}
}

// CreateBackup writes a new encrypted snapshot.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	backup, err := h.Backups.Create(sess.Username)
	if err != nil {
		fail(c, err, "backup failed")
		return
	}
	util.Success(c, util.Response{
		"backup": backupResp(backup),
	})
}

// ListBackups lists the user's snapshots, newest first.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	list, err := h.Backups.List(sess.Username)
	if err != nil {
		fail(c, err, "failed to list backups")
		return
	}
	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, backupResp(&list[i]))
	}
	util.Success(c, util.Response{
		"items": items,
	})
}

// DownloadBackup sends the encrypted file as is.
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	backup, err := h.Backups.Get(id, sess.Username)
	if err != nil {
		fail(c, err, "failed to load backup")
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", backup.FileName))
	c.File(backup.FilePath)
}

// DeleteBackup removes the file and its record.
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Backups.Delete(id, sess.Username); err != nil {
		fail(c, err, "failed to delete backup")
		return
	}
	util.Success(c, util.Response{
		"message": "backup deleted",
	})
}

// RestoreBackup replaces the user's entries with the snapshot.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	n, err := h.Backups.Restore(id, sess.Username)
	if err != nil {
		fail(c, err, "restore failed")
		return
	}
	util.Success(c, util.Response{
		"message":       "backup restored",
		"entries_count": n,
	})
}
