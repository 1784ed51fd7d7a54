package dvbs2

import (
	"fmt"
	"strings"

	"hackdvbs2/consts"
)

// FrameSize selects the FECFRAME length class.
type FrameSize int

const (
	FrameNormal FrameSize = iota
	FrameShort
	FrameMedium
)

var frameSizeNames = map[FrameSize]string{
	FrameNormal: "normal",
	FrameShort:  "short",
	FrameMedium: "medium",
}

// Bits returns the FECFRAME length in bits.
func (f FrameSize) Bits() int {
	switch f {
	case FrameNormal:
		return consts.FrameSizeNormal
	case FrameShort:
		return consts.FrameSizeShort
	case FrameMedium:
		return consts.FrameSizeMedium
	}
	return 0
}

func (f FrameSize) String() string {
	if s, ok := frameSizeNames[f]; ok {
		return s
	}
	return fmt.Sprintf("FrameSize(%d)", int(f))
}

// ParseFrameSize accepts "normal", "short" or "medium".
func ParseFrameSize(s string) (FrameSize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range frameSizeNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: frame size %q", ErrUnknownName, s)
}

// CodeRate is an LDPC code rate label of DVB-S2 or DVB-S2X. Not every rate
// exists for every frame size.
type CodeRate int

const (
	Rate1_4 CodeRate = iota
	Rate1_3
	Rate2_5
	Rate1_2
	Rate3_5
	Rate2_3
	Rate3_4
	Rate4_5
	Rate5_6
	Rate8_9
	Rate9_10
	Rate13_45
	Rate9_20
	Rate90_180
	Rate96_180
	Rate11_20
	Rate100_180
	Rate104_180
	Rate26_45
	Rate18_30
	Rate28_45
	Rate23_36
	Rate116_180
	Rate20_30
	Rate124_180
	Rate25_36
	Rate128_180
	Rate13_18
	Rate132_180
	Rate22_30
	Rate135_180
	Rate140_180
	Rate7_9
	Rate154_180
	Rate11_45
	Rate4_15
	Rate14_45
	Rate7_15
	Rate8_15
	Rate32_45
	Rate2_9VLSNR
	Rate1_5Medium
	Rate11_45Medium
	Rate1_3Medium
	Rate1_5VLSNRSF2
	Rate11_45VLSNRSF2
	Rate1_5VLSNR
	Rate4_15VLSNR
	Rate1_3VLSNR
	// RateOther is reserved. No frame size supports it.
	RateOther

	numCodeRates
)

var codeRateNames = [numCodeRates]string{
	Rate1_4:           "1/4",
	Rate1_3:           "1/3",
	Rate2_5:           "2/5",
	Rate1_2:           "1/2",
	Rate3_5:           "3/5",
	Rate2_3:           "2/3",
	Rate3_4:           "3/4",
	Rate4_5:           "4/5",
	Rate5_6:           "5/6",
	Rate8_9:           "8/9",
	Rate9_10:          "9/10",
	Rate13_45:         "13/45",
	Rate9_20:          "9/20",
	Rate90_180:        "90/180",
	Rate96_180:        "96/180",
	Rate11_20:         "11/20",
	Rate100_180:       "100/180",
	Rate104_180:       "104/180",
	Rate26_45:         "26/45",
	Rate18_30:         "18/30",
	Rate28_45:         "28/45",
	Rate23_36:         "23/36",
	Rate116_180:       "116/180",
	Rate20_30:         "20/30",
	Rate124_180:       "124/180",
	Rate25_36:         "25/36",
	Rate128_180:       "128/180",
	Rate13_18:         "13/18",
	Rate132_180:       "132/180",
	Rate22_30:         "22/30",
	Rate135_180:       "135/180",
	Rate140_180:       "140/180",
	Rate7_9:           "7/9",
	Rate154_180:       "154/180",
	Rate11_45:         "11/45",
	Rate4_15:          "4/15",
	Rate14_45:         "14/45",
	Rate7_15:          "7/15",
	Rate8_15:          "8/15",
	Rate32_45:         "32/45",
	Rate2_9VLSNR:      "2/9-vlsnr",
	Rate1_5Medium:     "1/5-medium",
	Rate11_45Medium:   "11/45-medium",
	Rate1_3Medium:     "1/3-medium",
	Rate1_5VLSNRSF2:   "1/5-vlsnr-sf2",
	Rate11_45VLSNRSF2: "11/45-vlsnr-sf2",
	Rate1_5VLSNR:      "1/5-vlsnr",
	Rate4_15VLSNR:     "4/15-vlsnr",
	Rate1_3VLSNR:      "1/3-vlsnr",
	RateOther:         "other",
}

func (r CodeRate) String() string {
	if r >= 0 && r < numCodeRates {
		return codeRateNames[r]
	}
	return fmt.Sprintf("CodeRate(%d)", int(r))
}

// CodeRates returns every label, including the reserved one.
func CodeRates() []CodeRate {
	rates := make([]CodeRate, numCodeRates)
	for i := range rates {
		rates[i] = CodeRate(i)
	}
	return rates
}

// ParseCodeRate accepts the names printed by String, e.g. "3/4" or "1/5-vlsnr-sf2".
func ParseCodeRate(s string) (CodeRate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range codeRateNames {
		if name == s {
			return CodeRate(i), nil
		}
	}
	return 0, fmt.Errorf("%w: code rate %q", ErrUnknownName, s)
}
