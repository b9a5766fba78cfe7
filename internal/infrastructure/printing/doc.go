// Package printing renders the kitchen's food count report to PDF via
// headless Chrome. The HTML is produced from an embedded template; the
// renderer is pluggable behind the PDFRenderer interface.
package printing
