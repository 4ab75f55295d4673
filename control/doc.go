// control/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package control provides the in-process configuration store and the
// metrics registry for hioload-txq. It is ambient infrastructure: no
// scheduling logic lives here.
package control
