// SPDX-FileCopyrightText: 2025 Norvik Labs
// SPDX-License-Identifier: Apache-2.0

/*
Package capture decorates http.ResponseWriter instances so that the final
status code and body size of a response can be read after the handler
returns.  The accesslog and metrics packages are its primary consumers.
*/
package capture
