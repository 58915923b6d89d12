package models

// FeedbackEntry is one customer submission as supplied by the feedback store.
// The pipeline only ever reads it.
type FeedbackEntry struct {
	ID     int64  `json:"id" yaml:"id" dynamodbav:"id"`
	Name   string `json:"name" yaml:"name" dynamodbav:"name" validate:"required"`
	Text   string `json:"feedback_text" yaml:"feedback_text" dynamodbav:"feedback_text" validate:"required"`
	Rating int    `json:"rating" yaml:"rating" dynamodbav:"rating" validate:"min=1,max=5"`
}
