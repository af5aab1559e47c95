// Package analysis post-processes written frames.
//
//   - [TransmissionLoss]: loss in dB along a horizontal line at a fixed depth
//   - [Receiver]: intensity time series at one point across frames
//   - [PowerSpectrum]: magnitude spectrum of a receiver series
//   - [DepthProfile]: sound speed, temperature, pressure and absorption
//     against depth for a water column
package analysis
