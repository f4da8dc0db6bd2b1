// Package stats provides the statistical tests used to judge interval
// co-occurrence: Fisher's exact test on contingency tables, correlation
// coefficients with p-values, percentiles and z-scores.
package stats
