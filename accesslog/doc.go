// SPDX-FileCopyrightText: 2025 Norvik Labs
// SPDX-License-Identifier: Apache-2.0

/*
Package accesslog emits one formatted record per handled request: method,
final status, path, optional timestamp, and the elapsed handling time.

The middleware measures around the entire inner handler, so when it is
composed outside the dispatch middleware the logged status is the one the
client actually received, whether the handler succeeded or its error was
dispatched.  Emission is best effort: a failing sink is reported to the
diagnostic logger and never disturbs the already-written response.
*/
package accesslog
