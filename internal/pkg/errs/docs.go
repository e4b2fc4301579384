// Package errs provides the error types shared by the delivertrack domain and adapters.
//
// Each type pairs a sentinel with a struct carrying details, so callers can test the
// category with errors.Is and still render a precise message:
//   - ObjectNotFoundError: an order, session or current user does not exist
//   - ValueIsRequiredError: a mandatory input is missing
//   - ValueIsInvalidError: an input breaks a business rule
//   - ValueIsOutOfRangeError: a numeric input falls outside its bounds
package errs
