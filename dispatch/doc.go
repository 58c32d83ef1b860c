// SPDX-FileCopyrightText: 2025 Norvik Labs
// SPDX-License-Identifier: Apache-2.0

/*
Package dispatch maps errors raised during request handling onto complete
HTTP responses.

Errors are organized into classes, each with an explicit parent, rooted at
Generic.  A Registry associates handlers with classes.  Dispatching walks
the error's class chain from most derived to least derived and invokes the
first registered handler; a handler for Generic is required at Build time,
so every error finds a handler.  If the selected handler itself fails, a
fixed last-resort 500 response is written and no further dispatch occurs.

Application handlers are adapted with Registry.Then, which also recovers
panics and routes them through dispatch as Panic-classed errors.
*/
package dispatch
