package usecase

import (
	"strings"

	"github.com/acre-dev/stevedore/pkg/domain/model"
	"github.com/acre-dev/stevedore/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ResolveVersion derives the canonical release version from a pushed tag ref
// by stripping the recognized prefix (e.g. "refs/tags/v1.2.3" with prefix
// "refs/tags/v" yields "1.2.3"). It has no side effects and is idempotent:
// the same ref always resolves to the same version.
func ResolveVersion(prefix, ref string) (model.Version, error) {
	rest, ok := strings.CutPrefix(ref, prefix)
	if !ok || rest == "" {
		return "", goerr.New("tag ref does not match the release tag pattern",
			goerr.T(types.ErrTagInvalidTagFormat),
			goerr.V("ref", ref),
			goerr.V("prefix", prefix),
		)
	}
	return model.Version(rest), nil
}
