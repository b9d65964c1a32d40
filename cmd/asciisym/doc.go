// Command asciisym renders audio files into ASCII-art visualization videos
// by orchestrating ffmpeg, chafa/img2txt, and ImageMagick.
package main
