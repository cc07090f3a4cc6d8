package main

import (
	"slices"
	"strings"
)

// Separators ordered coarse to fine. The final empty string is a
// character-level fallback so splitting always terminates.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

type RecursiveChunkifier struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewRecursiveChunkifier(size, overlap int) *RecursiveChunkifier {
	if overlap >= size {
		overlap = size / 4
	}
	if overlap < 0 {
		overlap = 0
	}

	return &RecursiveChunkifier{
		chunkSize:    size,
		chunkOverlap: overlap,
		separators:   defaultSeparators,
	}
}

// Chunkify splits text into chunks of at most chunkSize bytes, with
// consecutive chunks sharing roughly chunkOverlap trailing bytes. A unit with
// no split point left is passed through whole even if oversized.
func (c *RecursiveChunkifier) Chunkify(text string) []string {
	if len(text) == 0 {
		return []string{}
	}

	return c.merge(c.split(text, 0))
}

func (c *RecursiveChunkifier) split(text string, sep int) []string {
	if len(text) <= c.chunkSize || sep >= len(c.separators) {
		return []string{text}
	}

	if c.separators[sep] == "" {
		return splitChars(text)
	}

	// SplitAfter keeps the separator attached, so concatenating the units
	// reconstructs the input byte for byte.
	pieces := strings.SplitAfter(text, c.separators[sep])
	units := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p == "" {
			continue
		}

		if len(p) <= c.chunkSize {
			units = append(units, p)
		} else {
			units = append(units, c.split(p, sep+1)...)
		}
	}

	return units
}

// splitChars is the last-resort split for text with no separator match.
// Single-byte units let merge pack chunks to the size bound and seed the
// overlap, same as any other unit.
func splitChars(text string) []string {
	units := make([]string, 0, len(text))
	for i := range len(text) {
		units = append(units, text[i:i+1])
	}

	return units
}

func (c *RecursiveChunkifier) merge(units []string) []string {
	chunks := make([]string, 0, len(units))
	var cur []string
	curLen := 0

	for _, u := range units {
		if curLen > 0 && curLen+len(u) > c.chunkSize {
			chunks = append(chunks, strings.Join(cur, ""))
			cur = c.overlapTail(cur)
			curLen = 0
			for _, t := range cur {
				curLen += len(t)
			}

			// Shed overlap units from the front if the next unit would push
			// the seeded chunk past the size bound.
			for curLen > 0 && curLen+len(u) > c.chunkSize {
				curLen -= len(cur[0])
				cur = cur[1:]
			}
		}

		cur = append(cur, u)
		curLen += len(u)
	}

	if curLen > 0 {
		chunks = append(chunks, strings.Join(cur, ""))
	}

	return chunks
}

// overlapTail returns the smallest run of trailing units covering at least
// chunkOverlap bytes.
func (c *RecursiveChunkifier) overlapTail(units []string) []string {
	if c.chunkOverlap <= 0 {
		return nil
	}

	total := 0
	i := len(units)
	for i > 0 && total < c.chunkOverlap {
		i--
		total += len(units[i])
	}

	return slices.Clone(units[i:])
}
