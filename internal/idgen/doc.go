// Package idgen centralises run and message identifier generation.
package idgen
