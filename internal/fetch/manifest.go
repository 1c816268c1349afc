package fetch

import (
	"regexp"
	"strconv"

	"github.com/oracleapp/oracle/internal/model"
)

// Depot manifest filenames are DepotID_ManifestID.manifest.
var depotManifestRe = regexp.MustCompile(`^(\d+)_(\d+)\.manifest$`)

// ManifestIDs harvests the depot-to-manifest mapping from the fetched
// artifacts' original filenames. Used by the update flow to rewrite
// setManifestid calls in the unlock descriptor.
func ManifestIDs(artifacts []model.Artifact) map[uint32]string {
	ids := make(map[uint32]string)
	for _, a := range artifacts {
		if a.Kind != model.ArtifactManifest {
			continue
		}
		caps := depotManifestRe.FindStringSubmatch(a.Name)
		if caps == nil {
			continue
		}
		depot, err := strconv.ParseUint(caps[1], 10, 32)
		if err != nil {
			continue
		}
		ids[uint32(depot)] = caps[2]
	}
	return ids
}
