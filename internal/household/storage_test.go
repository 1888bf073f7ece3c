package household

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage *LocalStorage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(filepath.Join(tmpDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should create the storage directory", func() {
		info, err := os.Stat(filepath.Join(tmpDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("should save and read back a file", func() {
		path, err := storage.Save("bon.jpg", []byte("image data"))
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("bon.jpg"))

		data, err := storage.Get("bon.jpg")
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("image data")))
	})

	It("should delete a file", func() {
		_, err := storage.Save("bon.jpg", []byte("image data"))
		Expect(err).NotTo(HaveOccurred())

		Expect(storage.Delete("bon.jpg")).To(Succeed())
		_, err = storage.Get("bon.jpg")
		Expect(err).To(HaveOccurred())
	})

	It("should error when reading a missing file", func() {
		_, err := storage.Get("missing.jpg")
		Expect(err).To(HaveOccurred())
	})

	It("should error when deleting a missing file", func() {
		Expect(storage.Delete("missing.jpg")).NotTo(Succeed())
	})
})
