package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/mckp/core/model"
)

// AllChannels selects every channel in Scatter.
const AllChannels = -1

// Point is one term of a channel scatter plot.
type Point struct {
	Channel int  `json:"channel"`
	Power   int  `json:"power"`
	Rate    int  `json:"rate"`
	OnHull  bool `json:"on_hull"`
}

// Scatter returns the (power, rate) points of a channel, or of every channel
// when channel is AllChannels. With lpFiltered only the upper hull is
// returned, which requires a preprocessed instance. OnHull is set when the
// hull is known.
func Scatter(inst *model.Instance, channel int, lpFiltered bool) ([]Point, error) {
	if channel != AllChannels && (channel < 0 || channel >= len(inst.Original)) {
		return nil, fmt.Errorf("channel %d out of range [0,%d)", channel, len(inst.Original))
	}
	src := inst.Original
	if lpFiltered {
		if !inst.Preprocessed() {
			return nil, fmt.Errorf("scatter of LP-filtered data requires a preprocessed instance")
		}
		src = inst.Hull
	}
	onHull := map[model.Term]bool{}
	for _, ch := range inst.Hull {
		for _, t := range ch {
			onHull[t] = true
		}
	}
	var pts []Point
	for n, ch := range src {
		if channel != AllChannels && n != channel {
			continue
		}
		for _, t := range ch {
			pts = append(pts, Point{Channel: n, Power: t.Power, Rate: t.Rate, OnHull: onHull[t]})
		}
	}
	return pts, nil
}

// WriteJSON writes the points to w in JSON format.
func WriteJSON(w io.Writer, pts []Point) error {
	enc := json.NewEncoder(w)
	return enc.Encode(pts)
}

// WriteCSV writes the points to w in CSV format with a header row.
func WriteCSV(w io.Writer, pts []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"channel", "power", "rate", "on_hull"}); err != nil {
		return err
	}
	for _, p := range pts {
		rec := []string{
			strconv.Itoa(p.Channel),
			strconv.Itoa(p.Power),
			strconv.Itoa(p.Rate),
			strconv.FormatBool(p.OnHull),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
