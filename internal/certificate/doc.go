// Package certificate renders the two-page PDF certificate of a judged product:
// an award page with the overall score and a verification QR code, and an
// evaluation page with the per-criterion table, judges and project description.
//
// Remote images are best effort. A failed load leaves its region blank and the
// document is still produced.
package certificate
