// Package audio synthesizes spoken Chinese through Gemini or OpenAI
// text-to-speech, or offline through espeak-ng. Every provider returns
// base64-encoded raw PCM; wrappers add fallback, a circuit breaker and an
// sqlite-backed cache.
package audio
