// Package wordlist acquires themed vocabulary sets from a generative content
// service. Generators talk to Gemini or OpenAI; the Acquirer validates their
// output and degrades every failure to an empty word set.
package wordlist
