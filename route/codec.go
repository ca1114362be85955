package route

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/pathfollower/spatialmath"
)

// FileExtension is the extension of path files inside a repository.
const FileExtension = ".path"

// ParsePose parses one "x,y,theta" line. Anything other than exactly three numeric fields is
// rejected.
func ParsePose(line string) (spatialmath.Pose, bool) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 3 {
		return spatialmath.Pose{}, false
	}
	var numbers [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return spatialmath.Pose{}, false
		}
		numbers[i] = v
	}
	return spatialmath.NewPose(numbers[0], numbers[1], numbers[2]), true
}

// FormatPose renders a pose as a newline-terminated path file line.
func FormatPose(p spatialmath.Pose) string {
	return strconv.FormatFloat(p.X(), 'g', -1, 64) + "," +
		strconv.FormatFloat(p.Y(), 'g', -1, 64) + "," +
		strconv.FormatFloat(p.Theta, 'g', -1, 64) + "\n"
}

// Parse reads every waypoint from r. Lines that do not parse are skipped.
func Parse(r io.Reader) ([]spatialmath.Pose, error) {
	var poses []spatialmath.Pose
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if p, ok := ParsePose(scanner.Text()); ok {
			poses = append(poses, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading path")
	}
	return poses, nil
}

// Write writes poses to w in path file format.
func Write(w io.Writer, poses []spatialmath.Pose) error {
	bw := bufio.NewWriter(w)
	for _, p := range poses {
		if _, err := bw.WriteString(FormatPose(p)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads the waypoints stored in the file at filename.
func Load(filename string) ([]spatialmath.Pose, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	return Parse(f)
}
