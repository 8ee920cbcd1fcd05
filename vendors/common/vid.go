package common

import (
	"regexp"
	"strconv"

	"github.com/nanoncore/nano-wanguard/types"
)

// vidRegex matches "VID" followed by whitespace and a decimal number,
// as printed by the OMCI VLAN tagging operation table (ME 84).
var vidRegex = regexp.MustCompile(`VID\s+(\d+)`)

// ExtractVIDs returns every VID in output, in the order encountered.
// Duplicates are kept. Numbers too large for an int are skipped.
func ExtractVIDs(output string) []types.VlanCandidate {
	matches := vidRegex.FindAllStringSubmatch(StripANSI(output), -1)
	vids := make([]types.VlanCandidate, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		vids = append(vids, types.VlanCandidate(n))
	}
	return vids
}
