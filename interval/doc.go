/*Package interval implements set operations, indexing and I/O for collections
  of genomic intervals, as represented by BED files.

  An Entry is a half-open [Start0, End) interval on a named chromosome.  A
  Collection keeps entries as they were read, overlaps and all.  Union merges a
  Collection into a BEDUnion, a per-chromosome sorted sequence of disjoint
  interval endpoints; Intersect and Subtract operate on BEDUnions.  An Index
  answers overlap and nearest-neighbor queries against the raw entries of a
  Collection.

  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM files are limited to.
*/
package interval
