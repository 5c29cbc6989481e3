// Package matrix parses the traceability matrix and correlates its screen
// blocks with the discovered screen artifacts.
package matrix

import (
	"bufio"
	"regexp"
	"strings"
)

// Block is one screen's entry in the matrix.
type Block struct {
	ScreenName string
	Components []string
}

const (
	blockMarker      = "- Screen:"
	componentsHeader = "System components used:"
	listItemMarker   = "- "
)

// sectionHeaders close the components section.
var sectionHeaders = []string{
	"UIKit/SwiftUI bridging:",
	"Accessibility:",
	"State:",
	"Notes:",
}

var screenNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+`)

type parseState int

const (
	seekingBlockStart parseState = iota
	inOtherSection
	inComponentsSection
)

// Parse splits the matrix into blocks. A block starts at a line beginning
// with "- Screen:"; its components are the "- " items following the
// "System components used:" header, up to the next known section header or
// the end of the block. Only the first components section of a block counts.
func Parse(text string) []Block {
	var (
		blocks  []Block
		current *Block
		state   = seekingBlockStart
		seen    bool
	)

	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.HasPrefix(line, blockMarker) {
			flush()
			state, seen = seekingBlockStart, false
			name := screenNamePattern.FindString(strings.TrimSpace(strings.TrimPrefix(line, blockMarker)))
			if name == "" {
				continue
			}
			current = &Block{ScreenName: name, Components: []string{}}
			state = inOtherSection
			continue
		}

		switch state {
		case seekingBlockStart:
			continue
		case inOtherSection:
			idx := strings.Index(line, componentsHeader)
			if idx < 0 || seen {
				continue
			}
			seen = true
			state = inComponentsSection
			rest := line[idx+len(componentsHeader):]
			if item, ok := listItem(rest); ok {
				current.Components = append(current.Components, item)
			}
		case inComponentsSection:
			if isSectionHeader(line) {
				state = inOtherSection
				continue
			}
			if item, ok := listItem(line); ok {
				current.Components = append(current.Components, item)
			}
		}
	}
	flush()

	return blocks
}

// Index maps screen names to blocks. When a screen appears twice the later
// block replaces the earlier one.
func Index(blocks []Block) map[string]Block {
	out := make(map[string]Block, len(blocks))
	for _, b := range blocks {
		out[b.ScreenName] = b
	}
	return out
}

func listItem(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, listItemMarker) {
		return "", false
	}
	item := strings.TrimSpace(trimmed[len(listItemMarker):])
	return item, item != ""
}

func isSectionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, listItemMarker))
	for _, h := range sectionHeaders {
		if strings.HasPrefix(trimmed, h) {
			return true
		}
	}
	return false
}
