package recipe

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"lorax-tracker/internal/cycle"
)

var (
	hoursRe   = regexp.MustCompile(`(\d+)\s*(?:hours?|hrs?|h)\b`)
	minutesRe = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?|m)\b`)
)

// ParsePrepTime extracts a duration in minutes from free text like
// "30 minutes", "1 hour 15 min" or "45 mins". Returns 0 when no
// duration is present.
func ParsePrepTime(text string) int {
	text = strings.ToLower(text)
	total := 0
	if m := hoursRe.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minutesRe.FindStringSubmatch(text); m != nil {
		min, _ := strconv.Atoi(m[1])
		total += min
	}
	return total
}

// Parse reads one markdown recipe. The expected shape is a "# Title"
// heading followed by "## Prep Time", "## Tags", "## Ingredients",
// "## Instructions" and "## Notes" sections; a "URL:" line anywhere
// records the source. Phase comes from the file's parent directory.
func Parse(r io.Reader, path string) (Recipe, error) {
	rec := Recipe{
		ID:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Phase:    phaseFromPath(path),
		FilePath: path,
	}

	section := ""
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var notes []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "# ") && rec.Title == "":
			rec.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		case strings.HasPrefix(line, "## "):
			section = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(strings.ToLower(line), "url:"):
			rec.URL = strings.TrimSpace(line[len("url:"):])
		case line == "":
			continue
		default:
			switch section {
			case "prep time":
				if rec.PrepMinutes == 0 {
					rec.PrepMinutes = ParsePrepTime(line)
				}
			case "tags":
				rec.Tags = append(rec.Tags, strings.ToLower(stripBullet(line)))
			case "ingredients":
				rec.Ingredients = append(rec.Ingredients, stripBullet(line))
			case "instructions":
				rec.Instructions = append(rec.Instructions, stripBullet(line))
			case "notes":
				notes = append(notes, line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Recipe{}, fmt.Errorf("read recipe %s: %w", path, err)
	}
	rec.Notes = strings.Join(notes, "\n")

	if rec.Title == "" {
		return Recipe{}, fmt.Errorf("recipe %s: missing title heading", path)
	}
	if len(rec.Ingredients) == 0 {
		return Recipe{}, fmt.Errorf("recipe %s: no ingredients", path)
	}
	return rec, nil
}

// stripBullet removes a leading "- ", "* " or "1. " list marker.
func stripBullet(line string) string {
	line = strings.TrimSpace(line)
	for _, prefix := range []string{"- ", "* "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	if i := strings.Index(line, ". "); i > 0 && i <= 3 {
		if _, err := strconv.Atoi(line[:i]); err == nil {
			return strings.TrimSpace(line[i+2:])
		}
	}
	return line
}

func phaseFromPath(path string) cycle.FunctionalPhase {
	dir := strings.ToLower(filepath.Base(filepath.Dir(path)))
	switch dir {
	case "power":
		return cycle.Power
	case "manifestation":
		return cycle.Manifestation
	case "nurture":
		return cycle.Nurture
	}
	return ""
}
