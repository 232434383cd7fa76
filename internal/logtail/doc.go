// Package logtail reads the tail of buddyctl's activity log.
//
// # Overview
//
// The watch dashboard writes zerolog JSON lines (poll failures, key actions)
// to an activity log instead of the terminal, since stderr output would tear
// the Bubble Tea screen. This package reads the last lines of that file back
// so the dashboard can show recent activity.
//
// # Reading
//
// Read uses a ring buffer to return the last maxLines lines in file order:
//
//   - Scans the file sequentially (one pass)
//   - Uses O(maxLines) memory, not O(file size)
//   - Tolerates lines up to 1MB
//
// A missing file is not an error; it yields no lines. A non-positive
// maxLines also yields nothing.
//
// # Structured Entries
//
// Entries and Parse decode each line with gjson, picking the fields the
// dashboard renders (time, level, message, action, error). Lines that are not
// JSON objects are skipped rather than reported, so a partially written last
// line never breaks the panel.
//
// # Usage Example
//
//	entries, err := logtail.Entries(logPath, 8)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.Time.Format("15:04:05"), e.Level, e.Message)
//	}
package logtail
