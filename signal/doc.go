/*Package signal summarizes signal tracks (such as ChIP-seq coverage) over
  genomic regions, and measures how the signals of two tracks covary across a
  set of regions.
*/
package signal
