package patch

import (
	"errors"
	"fmt"
	"sort"
)

// Built-in profile names.
const (
	ProfileBanner = "banner"
	ProfileSplit  = "split"
	ProfileRepair = "repair"
)

// DefaultProfile is used when no profile is configured.
const DefaultProfile = ProfileBanner

// ErrUnknownProfile is returned by LookupProfile for an unregistered name.
var ErrUnknownProfile = errors.New("unknown profile")

// Profile pairs a RuleSet with the page files it targets by default.
type Profile struct {
	// Description is a one-line summary shown by `adpatch profiles`.
	Description string

	// Rules is the rule set applied to each file.
	Rules RuleSet

	// Files are paths relative to the base path, slash separated.
	Files []string
}

// bannerImportMarker identifies files already patched by the banner profile.
const bannerImportMarker = "import VerticalAdBanner"

const (
	footerImportPattern = `(import Footer from ["']\.\./components/footer["'];)`
	bannerImport        = "${1}\nimport VerticalAdBanner from \"../components/VerticalAdBanner\";"

	// The style object may carry other properties around the three anchors,
	// but the anchors must appear in this order inside a single {{ }}.
	bannerOpenPattern = `return \(\s*<div>\s*<Navbar />\s*<div style=\{\{[^}]*maxWidth: "900px"[^}]*margin: "4rem auto"[^}]*padding: "0 2rem"[^}]*\}\}>`
	bannerOpen        = `return (
    <div>
      <Navbar />

      <div style={{
        display: "flex",
        maxWidth: "1400px",
        margin: "4rem auto",
        padding: "0 2rem",
        gap: "2rem",
        alignItems: "flex-start"
      }}>
        {/* Left Ad */}
        <VerticalAdBanner className="left-ad" />

        {/* Main Content */}
        <div style={{ flex: 1, maxWidth: "900px", margin: "0 auto" }}>`

	bannerClosePattern = `</div>\s*</div>\s*</div>\s*\{/\* URL Input Modal \*/\}`
	bannerClose        = `</div>
        </div>
        </div>

        {/* Right Ad */}
        <VerticalAdBanner className="right-ad" />
      </div>

      {/* URL Input Modal */}`
)

const (
	splitMarker = "<VerticalAdLeft"

	splitOpenPattern = `(<Navbar\s*/>\s*)\n\s*<div style=\{\{\s*maxWidth:\s*"900px",\s*margin:\s*"4rem auto",\s*padding:\s*"0 2rem"\s*\}\}>`
	splitOpen        = `${1}
      <div style={{
        display: "flex",
        maxWidth: "1400px",
        margin: "4rem auto",
        padding: "0 2rem",
        gap: "2rem",
        alignItems: "flex-start"
      }}>
        {/* Left Ad */}
        <VerticalAdLeft />

        {/* Main Content */}
        <div style={{ flex: 1, maxWidth: "900px", margin: "0 auto" }}>`

	splitClosePattern = `\n(\s*)<ToolInstructions`
	splitClose        = `
        </div>

        {/* Right Ad */}
        <VerticalAdRight />
      </div>

${1}<ToolInstructions`
)

const (
	duplicateRightAdSpacedPattern = `      \}\)\s+</div>\s+\n\s+\n\s+\{/\* Right Ad \*/\}\s+<VerticalAdRight />\s+</div>`
	duplicateRightAdPattern       = `      \}\)\s+</div>\s+\n\s+\{/\* Right Ad \*/\}\s+<VerticalAdRight />\s+</div>`
	duplicateRightAdReplacement   = `      })`

	strandedToolInstructionsPattern = `(\s+)\}\)\s+</div>\s+\n\s+\{/\* Right Ad \*/\}\s+<VerticalAdRight />\s+</div>\s+\n\s+<ToolInstructions`
	strandedToolInstructions        = "${1}})\n\n      <ToolInstructions"
)

// BannerFiles is the page list patched by the banner profile.
var BannerFiles = []string{ //nolint:gochecknoglobals // Fixed build-time target list.
	"rotatepdf/page.tsx",
	"reorderpdf/page.tsx",
	"deletepdfpages/page.tsx",
	"watermark/page.tsx",
	"comparepdf/page.tsx",
	"ocr/page.tsx",
	"translate/page.tsx",
	"summarizer/page.tsx",
	"wordtopdf/page.tsx",
	"exceltopdf/page.tsx",
	"ppttopdf/page.tsx",
	"jpgtopdf/page.tsx",
	"pngtopdf/page.tsx",
	"tifftopdf/page.tsx",
	"htmltopdf/page.tsx",
	"scantopdf/page.tsx",
	"pdftoexcel/page.tsx",
	"pdftoppt/page.tsx",
	"pdftojpg/page.tsx",
	"pdftopng/page.tsx",
	"pdftotext/page.tsx",
	"pdftohtml/page.tsx",
	"pdftomarkdown/page.tsx",
	"pdftoepub/page.tsx",
	"pdftoxml/page.tsx",
	"esignpdf/page.tsx",
	"quiz/page.tsx",
}

// SplitFiles is the page list patched by the split profile.
var SplitFiles = pages( //nolint:gochecknoglobals // Fixed build-time target list.
	"watermark", "comparepdf", "ocr", "translate", "summarizer", "wordtopdf", "exceltopdf",
	"ppttopdf", "jpgtopdf", "pngtopdf", "tifftopdf", "htmltopdf", "scantopdf",
	"pdftoexcel", "pdftoppt", "pdftojpg", "pdftopng", "pdftotext", "pdftohtml",
	"pdftomarkdown", "pdftoepub", "pdftoxml", "esignpdf", "quiz", "pdftoword",
)

// RepairFiles is the page list cleaned by the repair profile.
var RepairFiles = pages( //nolint:gochecknoglobals // Fixed build-time target list.
	"watermark", "ocr", "translate", "summarizer", "wordtopdf", "exceltopdf",
	"ppttopdf", "jpgtopdf", "pngtopdf", "tifftopdf", "htmltopdf", "scantopdf",
	"pdftoexcel", "pdftoppt", "pdftojpg", "pdftopng", "pdftotext", "pdftohtml",
	"pdftomarkdown", "pdftoepub", "pdftoxml", "esignpdf", "quiz", "pdftoword",
)

func pages(folders ...string) []string {
	out := make([]string, len(folders))
	for i, f := range folders {
		out[i] = f + "/page.tsx"
	}
	return out
}

// BannerRules wraps page content with VerticalAdBanner slots on both sides.
// All three rules are optional and replace every match.
func BannerRules() RuleSet {
	return RuleSet{
		Name:   ProfileBanner,
		Marker: bannerImportMarker,
		Rules: []Rule{
			MustRule("import-injection", footerImportPattern, bannerImport),
			MustRule("wrapper-expansion", bannerOpenPattern, bannerOpen),
			MustRule("wrapper-closure", bannerClosePattern, bannerClose),
		},
	}
}

// SplitRules wraps page content with separate VerticalAdLeft and
// VerticalAdRight components, closing the wrapper before ToolInstructions.
// Both anchors are required.
func SplitRules() RuleSet {
	return RuleSet{
		Name:   ProfileSplit,
		Marker: splitMarker,
		Rules: []Rule{
			MustRule("wrapper-expansion", splitOpenPattern, splitOpen).WithOnce().WithRequired(),
			MustRule("wrapper-closure", splitClosePattern, splitClose).WithOnce().WithRequired(),
		},
	}
}

// RepairRules removes the duplicated right-ad block that a split patch
// leaves after a modal's closing "})". It has no marker, so every listed
// file is rewritten.
func RepairRules() RuleSet {
	return RuleSet{
		Name: ProfileRepair,
		Rules: []Rule{
			MustRule("strip-duplicate-right-ad-spaced", duplicateRightAdSpacedPattern, duplicateRightAdReplacement),
			MustRule("strip-duplicate-right-ad", duplicateRightAdPattern, duplicateRightAdReplacement),
			MustRule("restore-tool-instructions", strandedToolInstructionsPattern, strandedToolInstructions).WithOnce(),
		},
	}
}

// Profiles returns every built-in profile keyed by name.
func Profiles() map[string]Profile {
	return map[string]Profile{
		ProfileBanner: {
			Description: "inject VerticalAdBanner import and left/right banner slots",
			Rules:       BannerRules(),
			Files:       BannerFiles,
		},
		ProfileSplit: {
			Description: "wrap content with VerticalAdLeft/VerticalAdRight before ToolInstructions",
			Rules:       SplitRules(),
			Files:       SplitFiles,
		},
		ProfileRepair: {
			Description: "remove duplicated right-ad closing blocks left after modals",
			Rules:       RepairRules(),
			Files:       RepairFiles,
		},
	}
}

// ProfileNames returns the built-in profile names in sorted order.
func ProfileNames() []string {
	all := Profiles()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupProfile returns the named profile. An empty name selects
// DefaultProfile.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := Profiles()[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q (available: %v)", ErrUnknownProfile, name, ProfileNames())
	}
	return p, nil
}
