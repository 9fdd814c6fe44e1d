// Package dto provides the request and response bodies of the chat endpoints.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
	customValidation "github.com/gegcuk/kidsgpt-backend/internal/validation"
)

// ChatMessageRequest is the body of POST /chat. Omit contextId to start a conversation.
type ChatMessageRequest struct {
	Message   string     `json:"message"`
	ContextID *uuid.UUID `json:"contextId,omitempty"`
	Tone      string     `json:"tone"`
}

// Validate requires a non-blank message and tone.
func (r *ChatMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Message,
			validation.Required,
			customValidation.NotBlank,
			customValidation.PrintableText,
			validation.Length(1, 2000),
		),
		validation.Field(&r.Tone,
			validation.Required,
			customValidation.NotBlank,
			customValidation.PrintableText,
			validation.Length(1, 50),
		),
	)
}

// ToDomain converts the request to a ChatInput.
func (r *ChatMessageRequest) ToDomain() *domain.ChatInput {
	return &domain.ChatInput{
		Message:   r.Message,
		ContextID: r.ContextID,
		Tone:      r.Tone,
	}
}
