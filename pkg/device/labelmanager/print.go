package labelmanager

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"dymoprint/pkg/bitmap"
)

// Optimize strips the byte columns that are blank on every row, counting
// them as dot tab, then drops the trailing blank bytes of each row. A column
// is never stripped if that would leave a row empty. The input is not modified.
func Optimize(lines bitmap.Matrix) (bitmap.Matrix, int) {
	lines = lines.Clone()

	dotTab := 0
	for len(lines) > 0 && leadingColumnBlank(lines) {
		for i := range lines {
			lines[i] = lines[i][1:]
		}
		dotTab++
	}

	for i, line := range lines {
		end := len(line)
		for end > 0 && line[end-1] == 0 {
			end--
		}
		lines[i] = line[:end]
	}

	return lines, dotTab
}

func leadingColumnBlank(lines bitmap.Matrix) bool {
	for _, line := range lines {
		if len(line) == 0 || line[0] != 0 {
			return false
		}
	}
	return true
}

// PrintLabel prints the label described by lines, splitting it into several
// flushes when it is longer than the maximum line count. Only the last part
// is followed by margin blank rows. The status of the last flush is returned.
func (l *LabelManager) PrintLabel(lines bitmap.Matrix, margin int) ([]byte, error) {
	optimized, dotTab := Optimize(lines)

	chunks := lo.Chunk([][]byte(optimized), l.maxLines)
	if len(chunks) == 0 {
		chunks = [][][]byte{nil}
	}

	l.logger.With(
		zap.Int("lines", len(optimized)),
		zap.Int("dotTab", dotTab),
		zap.Int("chunks", len(chunks)),
		zap.Int("margin", margin),
	).Debug("print label")

	var status []byte
	for i, chunk := range chunks {
		m := 0
		if i == len(chunks)-1 {
			m = margin
		}

		var err error
		if status, err = l.rawPrintLabel(chunk, dotTab, m); err != nil {
			return nil, err
		}

		if l.progress != nil {
			l.progress(i+1, len(chunks))
		}
	}

	l.logger.With(zap.String("status", fmt.Sprintf("%x", status))).Info("label printed")
	return status, nil
}

func (l *LabelManager) rawPrintLabel(lines [][]byte, dotTab, margin int) ([]byte, error) {
	if err := l.buildLabel(lines, dotTab, margin); err != nil {
		l.ResetCommand()
		return nil, err
	}
	return l.SendCommand()
}

func (l *LabelManager) buildLabel(lines [][]byte, dotTab, margin int) error {
	if err := l.SetTapeColor(0); err != nil {
		return err
	}
	if err := l.SetDotTab(dotTab); err != nil {
		return err
	}
	for _, line := range lines {
		if err := l.Line(line); err != nil {
			return err
		}
	}
	if margin > 0 {
		if err := l.SkipLines(margin); err != nil {
			return err
		}
	}
	l.StatusRequest()
	return nil
}
