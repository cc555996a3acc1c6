package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkblast/blazon-api/repository"
	"github.com/mkblast/blazon-api/storage"
	"github.com/mkblast/blazon-api/validation"
)

const maxProfileImageBytes = 4000000

type MeController struct {
	users  repository.UserRepository
	images storage.ImageStore
}

func NewMeController(users repository.UserRepository, images storage.ImageStore) *MeController {
	return &MeController{users: users, images: images}
}

func (mc *MeController) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Query succeed.",
		"me":     user.Own(),
	})
}

type aboutInput struct {
	About string `json:"about"`
}

func (mc *MeController) UpdateAbout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input aboutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		failWith(c, http.StatusBadRequest, "Input validation failed.", err.Error())
		return
	}

	fields, violations := validation.Run(
		map[string]string{"about": input.About},
		validation.AboutRules(),
	)
	if len(violations) > 0 {
		failValidation(c, "Input validation failed.", violations)
		return
	}

	updated, err := mc.users.UpdateAbout(c.Request.Context(), user.ID, fields["about"])
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Operation succeed.",
		"user":   updated.Public(),
	})
}

func (mc *MeController) UploadProfileImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("profile_image")
	if err != nil {
		failWith(c, http.StatusBadRequest, "Operation failed", "File not Found")
		return
	}

	if file.Size > maxProfileImageBytes {
		failWith(c, http.StatusBadRequest, "Operation failed", "file should be smaller than 4MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		serverError(c, err)
		return
	}
	defer src.Close()

	url, err := mc.images.Save(c.Request.Context(), file.Filename, src)
	if err != nil {
		serverError(c, err)
		return
	}

	updated, err := mc.users.UpdateProfileImage(c.Request.Context(), user.ID, url)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Profile image uploaded",
		"user":   updated.Public(),
	})
}

// GetImage streams a stored profile image back out by id. The content type
// is sniffed from the leading bytes.
func (mc *MeController) GetImage(c *gin.Context) {
	file, err := mc.images.Open(c.Param("imageId"))
	if err != nil {
		failWith(c, http.StatusNotFound, "Query failed.", "Image not found")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		serverError(c, err)
		return
	}

	c.Header("Content-Type", http.DetectContentType(head[:n]))
	if _, err := c.Writer.Write(head[:n]); err != nil {
		return
	}
	// headers are already out; a failed copy cannot become a JSON error
	_, _ = io.Copy(c.Writer, file)
}
