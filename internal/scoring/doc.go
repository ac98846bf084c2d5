// Package scoring aggregates judging results: the weighted overall score over
// rating criteria and the choice of judges shown on a certificate.
package scoring
