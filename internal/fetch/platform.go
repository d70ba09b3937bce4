package fetch

import (
	"net/url"
	"strings"
)

// Board is a known applicant tracking system.
type Board string

const (
	BoardGreenhouse Board = "greenhouse"
	BoardLever      Board = "lever"
	BoardWorkday    Board = "workday"
	BoardAshby      Board = "ashby"
	BoardUnknown    Board = "unknown"
)

var boardHosts = []struct {
	suffix string
	board  Board
}{
	{"greenhouse.io", BoardGreenhouse},
	{"lever.co", BoardLever},
	{"myworkdayjobs.com", BoardWorkday},
	{"workday.com", BoardWorkday},
	{"ashbyhq.com", BoardAshby},
}

// DetectBoard identifies the job board hosting rawURL.
func DetectBoard(rawURL string) Board {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return BoardUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range boardHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.board
		}
	}
	return BoardUnknown
}

// Selectors holds the extraction hints for a board.
type Selectors struct {
	Content []string
	Noise   []string
}

// applicationNoise appears on nearly every posting: apply forms, EEO blurbs, share widgets.
var applicationNoise = []string{
	"form",
	".application-form",
	"#application-form",
	".apply-button-container",
	".eeo-statement",
	".voluntary-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// SelectorsFor returns content and noise selectors for board.
func SelectorsFor(board Board) Selectors {
	noise := append([]string(nil), applicationNoise...)
	switch board {
	case BoardGreenhouse:
		return Selectors{
			Content: []string{".job__description.body", ".job__description", "#content", ".job-post-container"},
			Noise:   append(noise, ".voluntary-self-id", "#usa_self_id_section", ".post-apply"),
		}
	case BoardLever:
		return Selectors{
			Content: []string{".posting-page", ".posting-description", ".content"},
			Noise:   append(noise, ".posting-apply", ".lever-application-form"),
		}
	case BoardWorkday:
		return Selectors{
			Content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
			Noise:   append(noise, "[data-automation-id='applyButton']"),
		}
	case BoardAshby:
		return Selectors{
			Content: []string{"._descriptionText", "[class*='descriptionText']", "main"},
			Noise:   append(noise, "[class*='applicationForm']"),
		}
	default:
		return Selectors{Content: JobPostingSelectors(), Noise: noise}
	}
}
