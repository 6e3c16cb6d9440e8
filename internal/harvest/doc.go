// Package harvest drives the link collection run.
//
// A run walks every store listing from the input spreadsheet, fetches each
// paginated listing page through the clearance service, extracts product
// links from the returned HTML, and appends them to the output file. Page
// failures are logged and skipped so one broken page never aborts the run;
// the final report records what succeeded and what did not.
//
// Stores are processed sequentially by default. The BatchHarvester adds
// bounded concurrency for callers that want it, such as the task service.
package harvest
