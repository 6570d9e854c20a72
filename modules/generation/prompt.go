package generation

import "fmt"

// Prompt templates per output kind. Each embeds the literal task description
// and pins the target to Excel 2016+ so generated artifacts work on the
// versions users actually run.
const (
	formulaPrompt = `Generate an Excel formula for the following request: %q. Return only the formula, starting with =. Ensure the formula is valid for Excel 2016+.`

	vbaPrompt = `Generate VBA code for Excel to accomplish: %q. Ensure the code is safe, avoids file I/O or network calls, and is compatible with Excel 2016+. Return only the VBA code, formatted cleanly with proper indentation.`

	chartPrompt = `Generate VBA code to create an Excel chart for: %q. Specify chart type (e.g., xlPie, xlColumnClustered), data range, and styling in blue (#1E3A8A) and dark green (#064E3B). Ensure the code is compatible with Excel 2016+. Return only the VBA code, formatted cleanly with proper indentation.`
)

// BuildPrompt renders the template for the given output kind. Unknown kinds
// fail before any network call is made.
func BuildPrompt(input string, kind OutputKind) (string, error) {
	switch kind {
	case KindFormula:
		return fmt.Sprintf(formulaPrompt, input), nil
	case KindVBA:
		return fmt.Sprintf(vbaPrompt, input), nil
	case KindChart:
		return fmt.Sprintf(chartPrompt, input), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOutputKind, kind)
	}
}
