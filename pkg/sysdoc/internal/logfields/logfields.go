package logfields

import "log/slog"

// Canonical log field names shared by the build pipeline.
const (
	KeyPart        = "part"
	KeyPath        = "path"
	KeyContentType = "content_type"
	KeyRelID       = "rel_id"
	KeyRelType     = "rel_type"
	KeySection     = "section"
	KeyImage       = "image"
	KeyCount       = "count"
	KeyBytes       = "bytes"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

func Part(id int) slog.Attr            { return slog.Int(KeyPart, id) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func ContentType(ct string) slog.Attr  { return slog.String(KeyContentType, ct) }
func RelID(id string) slog.Attr        { return slog.String(KeyRelID, id) }
func RelType(t string) slog.Attr       { return slog.String(KeyRelType, t) }
func Section(s string) slog.Attr       { return slog.String(KeySection, s) }
func Image(name string) slog.Attr      { return slog.String(KeyImage, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
