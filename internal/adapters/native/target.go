package native

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// HostTarget describes the platform artifacts are built for, including the vector
// extensions the host offers, e.g. "linux/amd64+avx+avx2+fma".
func HostTarget() string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasAVX {
			features = append(features, "avx")
		}
		if cpu.X86.HasAVX2 {
			features = append(features, "avx2")
		}
		if cpu.X86.HasFMA {
			features = append(features, "fma")
		}
		if cpu.X86.HasAVX512 {
			features = append(features, "avx512")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			features = append(features, "asimd")
		}
		if cpu.ARM64.HasSVE {
			features = append(features, "sve")
		}
	}

	target := runtime.GOOS + "/" + runtime.GOARCH
	if len(features) > 0 {
		target += "+" + strings.Join(features, "+")
	}
	return target
}
