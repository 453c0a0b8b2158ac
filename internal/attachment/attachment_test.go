package attachment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"acadrepo/internal/apperror"
	"acadrepo/internal/model"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(0)

	tests := []struct {
		name     string
		role     model.Role
		size     int64
		filename string
		wantExt  string
		wantErr  error
	}{
		{"pdf document", model.RoleDocument, 1024, "paper.pdf", "pdf", nil},
		{"upper-case extension", model.RoleDocument, 1024, "PAPER.DOCX", "docx", nil},
		{"wav audio", model.RoleAudio, 2048, "talk.wav", "wav", nil},
		{"mp3 audio rejected", model.RoleAudio, 2048, "talk.mp3", "", ErrUnsupportedType},
		{"txt document rejected", model.RoleDocument, 10, "notes.txt", "", ErrUnsupportedType},
		{"no extension", model.RoleImage, 10, "photo", "", ErrUnsupportedType},
		{"png image", model.RoleImage, 10, "photo.PNG", "png", nil},
		{"zip material", model.RoleMaterial, 10, "slides.zip", "zip", nil},
		{"pptx material", model.RoleMaterial, 10, "aula.pptx", "pptx", nil},
		{"exactly at ceiling", model.RoleMaterial, DefaultMaxSize, "a.pdf", "pdf", nil},
		{"over ceiling", model.RoleMaterial, 11 << 20, "a.pdf", "", ErrTooLarge},
		{"over ceiling wins over bad type", model.RoleMaterial, 11 << 20, "a.exe", "", ErrTooLarge},
		{"negative size", model.RoleImage, -1, "a.png", "", ErrInvalidSize},
		{"unknown role", model.Role("video"), 1, "a.mp4", "", ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := v.Validate(tt.role, tt.size, tt.filename)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, ext)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestValidator_ErrorKinds(t *testing.T) {
	v := NewValidator(100)

	_, err := v.Validate(model.RoleImage, 101, "a.png")
	assert.Equal(t, apperror.KindPayloadTooLarge, apperror.KindOf(err))

	_, err = v.Validate(model.RoleImage, 1, "a.bmp")
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "abc_material.pdf", FileName("abc", model.RoleMaterial, "pdf"))
	assert.Equal(t, "abc_image.png", FileName("abc", model.RoleImage, "png"))
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "application/pdf", MediaType("x_document.pdf"))
	assert.Equal(t, "audio/wav", MediaType("x_audio.WAV"))
	assert.Equal(t, "image/jpeg", MediaType("x_image.jpeg"))
	assert.Equal(t, "application/octet-stream", MediaType("x_material.bin"))
}
