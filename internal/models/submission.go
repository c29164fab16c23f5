package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTourMessage = "No message provided"

// TourRequest is a "schedule a tour" inquiry.
type TourRequest struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Time      string    `json:"time"`
	Programme string    `json:"programme"`
	Age       int       `json:"age"`
	Source    string    `json:"source"`
	Center    string    `json:"center"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateTourRequest struct {
	Data *TourRequestData `json:"data" binding:"required"`
}

type TourRequestData struct {
	Name      string `json:"name" binding:"required,notblank,max=200"`
	Email     string `json:"email" binding:"required,max=254,trimmed_email"`
	Phone     string `json:"phone" binding:"required,min=10,max=32"`
	Time      string `json:"time" binding:"required,notblank"`
	Programme string `json:"programme" binding:"required,oneof=ft pt"`
	Age       int    `json:"age" binding:"required,min=1,max=18"`
	Source    string `json:"source" binding:"required,notblank"`
	Center    string `json:"center" binding:"required,notblank"`
	Message   string `json:"message" binding:"max=5000"`
}

func NewTourRequest(d *TourRequestData) *TourRequest {
	message := strings.TrimSpace(d.Message)
	if message == "" {
		message = defaultTourMessage
	}
	return &TourRequest{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(d.Name),
		Email:     NormalizeEmail(d.Email),
		Phone:     strings.TrimSpace(d.Phone),
		Time:      strings.TrimSpace(d.Time),
		Programme: d.Programme,
		Age:       d.Age,
		Source:    strings.TrimSpace(d.Source),
		Center:    strings.TrimSpace(d.Center),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// ContactInquiry is a "get in touch" form submission.
type ContactInquiry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	FindUs    string    `json:"findUs"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateContactInquiry struct {
	Data *ContactInquiryData `json:"data" binding:"required"`
}

type ContactInquiryData struct {
	Name   string `json:"name" binding:"required,notblank,max=200"`
	Email  string `json:"email" binding:"required,max=254,trimmed_email"`
	Phone  string `json:"phone" binding:"required,min=10,max=32"`
	FindUs string `json:"findUs" binding:"required,notblank"`
}

func NewContactInquiry(d *ContactInquiryData) *ContactInquiry {
	return &ContactInquiry{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(d.Name),
		Email:     NormalizeEmail(d.Email),
		Phone:     strings.TrimSpace(d.Phone),
		FindUs:    strings.TrimSpace(d.FindUs),
		CreatedAt: time.Now().UTC(),
	}
}
