// Package header provides tools for reading and manipulating email message
// headers: ordered, case-insensitive field storage in Base and semantic
// accessors for the common fields (Content-type, Content-disposition,
// Content-id, Subject, Date, addresses) in Header.
package header
