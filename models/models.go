// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, Subscription, ResumeInfo, RefreshToken, PermanentToken from user.go
// - Interview, QuestionEntry, UserAnswer, Feedback, OverallFeedback from interview.go

// Database schema overview:
// 1. users - Accounts with profile, subscription counters, and resume reference
// 2. refresh_tokens / permanent_tokens - Hashed long-lived auth tokens
// 3. interviews - One row per practice interview; the ordered question
//    entries and the overall feedback are embedded JSON columns so every
//    lifecycle operation reads and writes the record as one document
package models
