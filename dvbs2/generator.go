package dvbs2

import (
	"fmt"
	"sync"

	"hackdvbs2/consts"
	"hackdvbs2/utils"
)

// Family groups the codes that share one BCH generator polynomial.
type Family int

const (
	Normal12 Family = iota // t=12, normal FECFRAME
	Normal10               // t=10, normal FECFRAME
	Normal8                // t=8, normal FECFRAME
	Short12                // t=12, short FECFRAME
	Medium12               // t=12, medium FECFRAME

	numFamilies
)

// Factor polynomials g1(x)..g12(x) from EN 302 307-1 table 6a/6b and
// EN 302 307-2 table 8. Coefficient i is the x^i term.
var (
	normalFactors = [][]byte{
		{1, 0, 1, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 1, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1, 0, 0, 0, 0, 1},
		{1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 1},
		{1, 1, 1, 1, 0, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0, 0, 1},
		{1, 0, 1, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1},
		{1, 0, 1, 0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 0, 1, 1},
		{1, 1, 1, 0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 1, 1, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 1, 1, 1, 0, 0, 0, 0, 1},
		{1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 1, 1, 1, 0, 1},
		{1, 0, 1, 1, 0, 1, 0, 0, 0, 1, 0, 1, 1, 1, 0, 0, 1},
		{1, 1, 0, 0, 0, 1, 1, 1, 0, 1, 0, 1, 1, 0, 0, 0, 1},
	}
	shortFactors = [][]byte{
		{1, 1, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 1, 0, 0, 1},
		{1, 1, 1, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 0, 1},
		{1, 0, 0, 0, 1, 0, 0, 1, 1, 0, 1, 0, 1, 0, 1},
		{1, 0, 1, 0, 1, 0, 1, 0, 1, 1, 0, 1, 0, 1, 1},
		{1, 0, 0, 1, 0, 0, 0, 1, 1, 1, 0, 0, 0, 1, 1},
		{1, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1, 1, 0, 1, 1},
		{1, 0, 0, 0, 0, 1, 0, 0, 1, 1, 1, 1, 0, 0, 1},
		{1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 1},
		{1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1},
		{1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 1, 0, 1},
		{1, 1, 1, 1, 0, 1, 1, 1, 1, 0, 1, 0, 0, 1, 1},
	}
	mediumFactors = [][]byte{
		{1, 0, 1, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 1, 0, 0, 0, 1},
		{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 1, 0, 1},
		{1, 0, 1, 1, 0, 1, 1, 0, 1, 0, 1, 1, 0, 0, 0, 1},
		{1, 1, 1, 0, 1, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 1},
		{1, 0, 0, 0, 1, 0, 1, 1, 0, 0, 0, 0, 1, 1, 0, 1},
		{1, 0, 1, 0, 1, 1, 0, 1, 0, 0, 0, 1, 1, 0, 1, 1},
		{1, 0, 1, 0, 1, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 1},
		{1, 1, 1, 0, 1, 1, 0, 1, 0, 1, 0, 1, 1, 1, 0, 1},
		{1, 1, 1, 1, 1, 0, 0, 1, 0, 0, 1, 1, 1, 1, 0, 1},
		{1, 1, 1, 0, 1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 1},
		{1, 0, 1, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0, 1, 1, 1},
	}
)

var families = [numFamilies]struct {
	name    string
	parity  int
	factors [][]byte
}{
	Normal12: {"normal-t12", consts.ParityNormal12, normalFactors[:12]},
	Normal10: {"normal-t10", consts.ParityNormal10, normalFactors[:10]},
	Normal8:  {"normal-t8", consts.ParityNormal8, normalFactors[:8]},
	Short12:  {"short-t12", consts.ParityShort12, shortFactors},
	Medium12: {"medium-t12", consts.ParityMedium12, mediumFactors},
}

var (
	generatorOnce [numFamilies]sync.Once
	generatorCoef [numFamilies][]byte
	generatorPoly [numFamilies][]uint32
)

func (f Family) String() string {
	if f >= 0 && f < numFamilies {
		return families[f].name
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Parity returns the redundancy length r in bits.
func (f Family) Parity() int {
	return families[f].parity
}

// Words returns the register width in 32-bit words.
func (f Family) Words() int {
	return utils.CeilDiv(f.Parity(), consts.WordBits)
}

// Generator returns g(x) as coefficients, x^0 first, of length r+1.
func (f Family) Generator() []byte {
	f.build()
	return append([]byte(nil), generatorCoef[f]...)
}

// packed returns the low r coefficients of g(x) packed MSB first. The x^r
// term is implicit in the encoder feedback.
func (f Family) packed() []uint32 {
	f.build()
	return generatorPoly[f]
}

func (f Family) build() {
	generatorOnce[f].Do(func() {
		fam := families[f]
		g := multiply(fam.factors[0], fam.factors[1])
		for _, factor := range fam.factors[2:] {
			g = multiply(g, factor)
		}
		if len(g) != fam.parity+1 {
			panic(fmt.Sprintf("dvbs2: %s generator has degree %d, want %d", fam.name, len(g)-1, fam.parity))
		}
		generatorCoef[f] = g
		generatorPoly[f] = pack(g[:fam.parity], f.Words())
	})
}

type codeKey struct {
	frame FrameSize
	rate  CodeRate
}

type codeEntry struct {
	n      int
	family Family
}

// Nbch and family of every standardized combination.
var codeTable = map[codeKey]codeEntry{
	{FrameNormal, Rate1_4}:      {16200, Normal12},
	{FrameNormal, Rate1_3}:      {21600, Normal12},
	{FrameNormal, Rate2_5}:      {25920, Normal12},
	{FrameNormal, Rate1_2}:      {32400, Normal12},
	{FrameNormal, Rate3_5}:      {38880, Normal12},
	{FrameNormal, Rate2_3}:      {43200, Normal10},
	{FrameNormal, Rate3_4}:      {48600, Normal12},
	{FrameNormal, Rate4_5}:      {51840, Normal12},
	{FrameNormal, Rate5_6}:      {54000, Normal10},
	{FrameNormal, Rate8_9}:      {57600, Normal8},
	{FrameNormal, Rate9_10}:     {58320, Normal8},
	{FrameNormal, Rate13_45}:    {18720, Normal12},
	{FrameNormal, Rate9_20}:     {29160, Normal12},
	{FrameNormal, Rate90_180}:   {32400, Normal12},
	{FrameNormal, Rate96_180}:   {34560, Normal12},
	{FrameNormal, Rate11_20}:    {35640, Normal12},
	{FrameNormal, Rate100_180}:  {36000, Normal12},
	{FrameNormal, Rate104_180}:  {37440, Normal12},
	{FrameNormal, Rate26_45}:    {37440, Normal12},
	{FrameNormal, Rate18_30}:    {38880, Normal12},
	{FrameNormal, Rate28_45}:    {40320, Normal12},
	{FrameNormal, Rate23_36}:    {41400, Normal12},
	{FrameNormal, Rate116_180}:  {41760, Normal12},
	{FrameNormal, Rate20_30}:    {43200, Normal12},
	{FrameNormal, Rate124_180}:  {44640, Normal12},
	{FrameNormal, Rate25_36}:    {45000, Normal12},
	{FrameNormal, Rate128_180}:  {46080, Normal12},
	{FrameNormal, Rate13_18}:    {46800, Normal12},
	{FrameNormal, Rate132_180}:  {47520, Normal12},
	{FrameNormal, Rate22_30}:    {47520, Normal12},
	{FrameNormal, Rate135_180}:  {48600, Normal12},
	{FrameNormal, Rate140_180}:  {50400, Normal12},
	{FrameNormal, Rate7_9}:      {50400, Normal12},
	{FrameNormal, Rate154_180}:  {55440, Normal12},
	{FrameNormal, Rate2_9VLSNR}: {14400, Normal12},

	{FrameShort, Rate1_4}:           {3240, Short12},
	{FrameShort, Rate1_3}:           {5400, Short12},
	{FrameShort, Rate2_5}:           {6480, Short12},
	{FrameShort, Rate1_2}:           {7200, Short12},
	{FrameShort, Rate3_5}:           {9720, Short12},
	{FrameShort, Rate2_3}:           {10800, Short12},
	{FrameShort, Rate3_4}:           {11880, Short12},
	{FrameShort, Rate4_5}:           {12600, Short12},
	{FrameShort, Rate5_6}:           {13320, Short12},
	{FrameShort, Rate8_9}:           {14400, Short12},
	{FrameShort, Rate11_45}:         {3960, Short12},
	{FrameShort, Rate4_15}:          {4320, Short12},
	{FrameShort, Rate14_45}:         {5040, Short12},
	{FrameShort, Rate7_15}:          {7560, Short12},
	{FrameShort, Rate8_15}:          {8640, Short12},
	{FrameShort, Rate26_45}:         {9360, Short12},
	{FrameShort, Rate32_45}:         {11520, Short12},
	{FrameShort, Rate1_5VLSNRSF2}:   {2680, Short12},
	{FrameShort, Rate11_45VLSNRSF2}: {3960, Short12},
	{FrameShort, Rate1_5VLSNR}:      {3240, Short12},
	{FrameShort, Rate4_15VLSNR}:     {4320, Short12},
	{FrameShort, Rate1_3VLSNR}:      {5400, Short12},

	{FrameMedium, Rate1_5Medium}:   {5840, Medium12},
	{FrameMedium, Rate11_45Medium}: {7920, Medium12},
	{FrameMedium, Rate1_3Medium}:   {10800, Medium12},
}

// Code is one resolved BCH configuration.
type Code struct {
	Frame  FrameSize
	Rate   CodeRate
	Family Family
	K      int // information bits, Kbch
	N      int // codeword bits, Nbch
}

// Parity returns N-K.
func (c Code) Parity() int { return c.N - c.K }

// Words returns the register width in 32-bit words.
func (c Code) Words() int { return c.Family.Words() }

// Generator returns the code's generator polynomial, x^0 first.
func (c Code) Generator() []byte { return c.Family.Generator() }

func (c Code) String() string {
	return fmt.Sprintf("%s %s BCH(%d,%d)", c.Frame, c.Rate, c.N, c.K)
}

// Lookup resolves a frame size and code rate. It reports false for
// combinations the standards do not define.
func Lookup(frame FrameSize, rate CodeRate) (Code, bool) {
	e, ok := codeTable[codeKey{frame, rate}]
	if !ok {
		return Code{}, false
	}
	return Code{
		Frame:  frame,
		Rate:   rate,
		Family: e.family,
		K:      e.n - e.family.Parity(),
		N:      e.n,
	}, true
}

// Codes lists every supported configuration, ordered by frame size then rate.
func Codes() []Code {
	var out []Code
	for _, frame := range []FrameSize{FrameNormal, FrameShort, FrameMedium} {
		for _, rate := range CodeRates() {
			if c, ok := Lookup(frame, rate); ok {
				out = append(out, c)
			}
		}
	}
	return out
}
