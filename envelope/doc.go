// Package envelope renders every service outcome, success or failure, as
// one {status, data, errors} response.
package envelope
