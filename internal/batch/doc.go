// Package batch vectorises directories of label images.
//
// A Runner lists the label files in a directory in lexical order, extracts
// each one on a bounded pool of workers and returns the records in the
// order the files were listed, so a concurrent run produces exactly the
// output of a sequential one. Files that cannot be decoded are logged and
// skipped; images holding class ids outside the category table are logged
// as failures and produce no record. Neither stops the batch.
//
// Records are written as JSON (the native layout) or as a GeoJSON
// FeatureCollection. Output files are written to a uniquely named temp file
// in the destination directory and renamed into place, so readers never see
// a partial file.
//
// Schedule repeats a job on a cron spec for long-running deployments that
// re-vectorise a directory as new tiles arrive.
package batch
