// Package fetch provides the scraper's HTTP transport and robots.txt
// politeness gate.
//
// # Components
//
//   - Client: rate-limited HTTP GET with a fixed identifying User-Agent,
//     per-request timeout, response size cap, and a mandatory pause after
//     every response. All crawl traffic flows through it.
//   - Policy: the parsed robots exclusion policy for the target site,
//     loaded once at start-up. Load failures are fail-open.
//
// # Politeness
//
// The scraper is intentionally slow. Requests are serialized by the caller
// and the Client pays the configured delay after every response, so the
// aggregate request rate is bounded regardless of what robots.txt says.
// The Policy adds the site operator's explicit rules on top: a disallowed
// root path aborts the run before any crawl request is issued.
package fetch
