package nes

// First-order IIR high-pass filter plus a 33-tap FIR low-pass filter,
// chained to band-limit the mixer output before decimation to the
// output sample rate.
//
// Grounded verbatim on original_source/src/apu/dsp.hpp and dsp.cpp,
// including the exact FIR tap coefficients (generated there with
// t-filter.engineeringjs.com for 88.2kHz sample rate, <=10kHz passband,
// >=20kHz stopband).

// highPassFilter is a first-order IIR high-pass filter, grounded on
// first_order_highpass_filter<SampleRateHz, CutoffFrequencyHz>.
type highPassFilter struct {
	alpha float32
	lastY float32
	lastX float32
}

func newHighPassFilter(sampleRateHz, cutoffFrequencyHz float64) *highPassFilter {
	alpha := 1.0 / (2*3.14159265358979323846*(1.0/sampleRateHz)*cutoffFrequencyHz + 1.0)
	return &highPassFilter{alpha: float32(alpha)}
}

func (f *highPassFilter) process(x float32) float32 {
	y := f.alpha * (f.lastY + x - f.lastX)
	f.lastY = y
	f.lastX = x
	return y
}

const firTapCount = 33

var firTaps = [firTapCount]float64{
	-0.000165371425938316, -0.0010142366677726668, -0.0031915882103072985,
	-0.006473383207434769, -0.00858335618521196, -0.005688368443273637,
	0.004178793334531979, 0.016591628711275536, 0.02030909322310278,
	0.004928485816587725, -0.02658527078058321, -0.05151827373029294,
	-0.03730493935172431, 0.034555098175678936, 0.14772597039690868,
	0.2528709265676202, 0.2957421307452675, 0.2528709265676202,
	0.14772597039690868, 0.034555098175678936, -0.03730493935172431,
	-0.05151827373029294, -0.02658527078058321, 0.004928485816587725,
	0.02030909322310278, 0.016591628711275536, 0.004178793334531979,
	-0.005688368443273637, -0.00858335618521196, -0.006473383207434769,
	-0.0031915882103072985, -0.0010142366677726668, -0.000165371425938316,
}

// antialiasingFilter is a 33-tap FIR low-pass filter driven as a ring
// buffer, grounded on antialiasing_filter.
type antialiasingFilter struct {
	history  [firTapCount]float64
	lastIndex int
}

func (f *antialiasingFilter) pushBack(input float32) {
	f.history[f.lastIndex] = float64(input)
	f.lastIndex++
	if f.lastIndex == firTapCount {
		f.lastIndex = 0
	}
}

func (f *antialiasingFilter) calculateFilteredSample() float32 {
	var acc float64
	index := f.lastIndex
	for i := 0; i < firTapCount; i++ {
		if index != 0 {
			index--
		} else {
			index = firTapCount - 1
		}
		acc += f.history[index] * firTaps[i]
	}
	return float32(acc)
}
