package assembler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mocksmith/mocksmith/internal/core/domain"
)

// dockerfileName is the name the rendered descriptor gets inside the build
// context sent to the daemon.
const dockerfileName = "Dockerfile"

// renderDockerfile turns an image spec into the build descriptor the daemon
// consumes: base image, working directory, one COPY per staged file, the
// advisory port and the start command in exec form.
func renderDockerfile(spec domain.ImageSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM %s\n", spec.BaseImage)
	fmt.Fprintf(&b, "WORKDIR %s\n", spec.WorkDir)
	for _, f := range spec.Staging {
		fmt.Fprintf(&b, "COPY %s %s\n", f.Source, f.ResolveDestination(spec.WorkDir))
	}
	fmt.Fprintf(&b, "EXPOSE %d\n", spec.ExposedPort)
	// Exec form keeps the argument list intact; json.Marshal produces it.
	entrypoint, _ := json.Marshal(spec.Entrypoint)
	fmt.Fprintf(&b, "ENTRYPOINT %s\n", entrypoint)
	return b.String()
}
