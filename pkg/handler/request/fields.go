package request

// Format is how a spot is returned.
type Format int

const (
	FormatHTML Format = iota
	FormatJSON
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	case FormatTSV:
		return "tsv"
	default:
		return "html"
	}
}

func ParseFormat(format string) Format {
	switch format {
	case "json":
		return FormatJSON
	case "tsv":
		return FormatTSV
	default:
		return FormatHTML // default to the page
	}
}
