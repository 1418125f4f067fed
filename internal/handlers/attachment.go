package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// allowedAttachmentTypes lists what a resume review or coaching chat may carry
var allowedAttachmentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"application/zip",
}

// AttachmentHandler stores files referenced by a message's fileUrl
type AttachmentHandler struct {
	dir     string
	maxSize int64
}

func NewAttachmentHandler(dir string, maxSize int) *AttachmentHandler {
	return &AttachmentHandler{dir: dir, maxSize: int64(maxSize)}
}

// UploadAttachment handles file uploads
func (h *AttachmentHandler) UploadAttachment(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No file uploaded",
		})
	}

	if file.Size > h.maxSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("File size exceeds limit of %.2fMB (uploaded: %.2fMB)", float64(h.maxSize)/(1024*1024), float64(file.Size)/(1024*1024)),
		})
	}

	content, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read uploaded file",
		})
	}
	detected, err := mimetype.DetectReader(content)
	content.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read uploaded file",
		})
	}

	if !mimetype.EqualsAny(detected.String(), allowedAttachmentTypes...) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("File type %s is not allowed", detected.String()),
		})
	}

	if err := os.MkdirAll(h.dir, 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create upload directory",
		})
	}

	// The stored extension follows the sniffed type, not the client's filename
	filename := uuid.NewString() + detected.Extension()
	if err := c.SaveFile(file, filepath.Join(h.dir, filename)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to save file",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"filename": file.Filename,
			"size":     file.Size,
			"type":     detected.String(),
			"url":      "/attachments/" + filename,
		},
	})
}

// GetAttachment serves an uploaded file
func (h *AttachmentHandler) GetAttachment(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("filename"))
	if filename == "." || filename == "/" || strings.HasPrefix(filename, ".") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid file name",
		})
	}

	filePath := filepath.Join(h.dir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "File not found",
		})
	}

	return c.SendFile(filePath)
}
