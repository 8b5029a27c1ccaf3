// Package models provides functionality for listing and categorizing
// the Gemini and OpenAI models available to the configured API keys. It
// helps users discover which word list and speech models they can pick.
package models
