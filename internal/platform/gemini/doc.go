// Package gemini implements the generation.Completer interface using
// Google's Gemini API as the external text-generation service.
package gemini
