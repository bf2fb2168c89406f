package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/mckp/core/model"
)

// ErrFormat is returned when an instance file cannot be parsed.
var ErrFormat = errors.New("instance format")

// MaxTerms bounds the number of terms a text header may announce.
const MaxTerms = 1 << 24

// ParseText reads the text format from r and builds the instance.
func ParseText(r io.Reader) (*model.Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	pos := 0
	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("%w: unexpected end of input reading %s (token %d)", ErrFormat, what, pos)
		}
		pos++
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("%w: %s: token %d %q is not an integer", ErrFormat, what, pos, sc.Text())
		}
		return v, nil
	}

	var header [3]int
	for i, name := range []string{"channel count", "terms per channel", "budget"} {
		v, err := next(name)
		if err != nil {
			return nil, err
		}
		header[i] = v
	}
	n, m, budget := header[0], header[1], header[2]
	if n <= 0 || m <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormat, n, m)
	}
	if n > MaxTerms/m {
		return nil, fmt.Errorf("%w: %dx%d terms exceed the limit of %d", ErrFormat, n, m, MaxTerms)
	}

	chans := make([]model.Channel, n)
	for c := range chans {
		chans[c] = make(model.Channel, m)
		for j := range chans[c] {
			p, err := next("power")
			if err != nil {
				return nil, err
			}
			chans[c][j].Power = p
		}
	}
	for c := range chans {
		for j := range chans[c] {
			r, err := next("rate")
			if err != nil {
				return nil, err
			}
			chans[c][j].Rate = r
		}
	}
	if sc.Scan() {
		return nil, fmt.Errorf("%w: trailing data after %d tokens", ErrFormat, pos)
	}
	return model.New(budget, chans)
}

// WriteText writes channels in the text format. Channels must all have the
// same number of terms.
func WriteText(w io.Writer, budget int, chans []model.Channel) error {
	if len(chans) == 0 {
		return fmt.Errorf("%w: no channels", ErrFormat)
	}
	m := len(chans[0])
	for i, ch := range chans {
		if len(ch) != m {
			return fmt.Errorf("%w: channel %d has %d terms, want %d", ErrFormat, i, len(ch), m)
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", len(chans), m, budget)
	for _, field := range []func(model.Term) int{
		func(t model.Term) int { return t.Power },
		func(t model.Term) int { return t.Rate },
	} {
		for _, ch := range chans {
			for j, t := range ch {
				if j > 0 {
					bw.WriteByte(' ')
				}
				bw.WriteString(strconv.Itoa(field(t)))
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
