package cmd

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/util"
)

// BackupWithS3 pushes or pulls the vault directory and the database
// directory using per-file modification-time metadata.
func BackupWithS3(config model.Config, direction string) error {
	s3Client, err := util.NewS3Client(config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}

	dataDir := filepath.Dir(config.DatabasePath)

	if direction == "pull" {
		log.Println("🔄 Downloading metadata from S3...")

		remoteMetadataVault, err := util.DownloadMetadataFromS3(s3Client, config, "vault")
		if err != nil {
			return fmt.Errorf("❌ Failed to download metadata_vault.json from S3: %w", err)
		}
		remoteMetadataData, err := util.DownloadMetadataFromS3(s3Client, config, "data")
		if err != nil {
			return fmt.Errorf("❌ Failed to download metadata_data.json from S3: %w", err)
		}

		localMetadataVault, _ := util.LoadMetadata(filepath.Join(config.VaultDir, "metadata_vault.json"))
		localMetadataData, _ := util.LoadMetadata(filepath.Join(dataDir, "metadata_data.json"))

		vaultDiff := util.DetectChanges(localMetadataVault, remoteMetadataVault, "s3")
		dataDiff := util.DetectChanges(localMetadataData, remoteMetadataData, "s3")

		if len(vaultDiff)+len(dataDiff) == 0 {
			log.Println("✅ No changes detected. Everything is up-to-date.")
		} else {
			log.Println("🔄 Downloading changed files from S3...")
			if err := util.SyncFilesToS3(s3Client, config, "pull", "vault", vaultDiff); err != nil {
				return fmt.Errorf("❌ Backup failed: %w", err)
			}
			if err := util.SyncFilesToS3(s3Client, config, "pull", "data", dataDiff); err != nil {
				return fmt.Errorf("❌ Backup failed: %w", err)
			}
		}

		log.Println("🔄 Saving updated metadata...")
		err = util.SaveMetadata(filepath.Join(config.VaultDir, "metadata_vault.json"), remoteMetadataVault)
		if err != nil {
			return fmt.Errorf("❌ Failed to save metadata_vault.json: %w", err)
		}
		err = util.SaveMetadata(filepath.Join(dataDir, "metadata_data.json"), remoteMetadataData)
		if err != nil {
			return fmt.Errorf("❌ Failed to save metadata_data.json: %w", err)
		}

		log.Println("✅ Backup completed successfully.")
		return nil

	} else if direction == "push" {
		log.Println("🔄 Generating metadata for push...")

		localMetadataVault, err := util.GenerateMetadata(config.VaultDir)
		if err != nil {
			return fmt.Errorf("❌ Failed to generate metadata_vault.json: %w", err)
		}
		localMetadataData, err := util.GenerateMetadata(dataDir)
		if err != nil {
			return fmt.Errorf("❌ Failed to generate metadata_data.json: %w", err)
		}

		err = util.SaveMetadata(filepath.Join(config.VaultDir, "metadata_vault.json"), localMetadataVault)
		if err != nil {
			return fmt.Errorf("❌ Failed to save metadata_vault.json: %w", err)
		}
		err = util.SaveMetadata(filepath.Join(dataDir, "metadata_data.json"), localMetadataData)
		if err != nil {
			return fmt.Errorf("❌ Failed to save metadata_data.json: %w", err)
		}

		remoteMetadataVault, err := util.DownloadMetadataFromS3(s3Client, config, "vault")
		if err != nil {
			return fmt.Errorf("❌ Failed to download metadata_vault.json from S3: %w", err)
		}
		remoteMetadataData, err := util.DownloadMetadataFromS3(s3Client, config, "data")
		if err != nil {
			return fmt.Errorf("❌ Failed to download metadata_data.json from S3: %w", err)
		}

		vaultDiff := util.DetectChanges(localMetadataVault, remoteMetadataVault, "local")
		dataDiff := util.DetectChanges(localMetadataData, remoteMetadataData, "local")

		if len(vaultDiff)+len(dataDiff) == 0 {
			log.Println("✅ No changes detected. Everything is up-to-date.")
		} else {
			log.Println("🔄 Uploading changed files to S3...")
			if err := util.SyncFilesToS3(s3Client, config, "push", "vault", vaultDiff); err != nil {
				return fmt.Errorf("❌ Backup failed: %w", err)
			}
			if err := util.SyncFilesToS3(s3Client, config, "push", "data", dataDiff); err != nil {
				return fmt.Errorf("❌ Backup failed: %w", err)
			}
		}

		log.Println("🔄 Uploading metadata to S3...")
		err = util.UploadMetadataToS3(s3Client, config, "vault")
		if err != nil {
			return fmt.Errorf("❌ Failed to upload metadata_vault.json: %w", err)
		}
		err = util.UploadMetadataToS3(s3Client, config, "data")
		if err != nil {
			return fmt.Errorf("❌ Failed to upload metadata_data.json: %w", err)
		}

		log.Println("✅ Backup completed successfully.")
		return nil
	}
	return fmt.Errorf("❌ Unknown backup direction: %s", direction)
}

// ShowBackupStatus lists the files a pull would fetch from S3.
func ShowBackupStatus(config model.Config) error {
	s3Client, err := util.NewS3Client(config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}

	dataDir := filepath.Dir(config.DatabasePath)

	localMetadataVault, _ := util.LoadMetadata(filepath.Join(config.VaultDir, "metadata_vault.json"))
	localMetadataData, _ := util.LoadMetadata(filepath.Join(dataDir, "metadata_data.json"))

	remoteMetadataVault, err := util.DownloadMetadataFromS3(s3Client, config, "vault")
	if err != nil {
		return err
	}
	remoteMetadataData, err := util.DownloadMetadataFromS3(s3Client, config, "data")
	if err != nil {
		return err
	}

	vaultDiff := util.DetectChanges(localMetadataVault, remoteMetadataVault, "s3")
	dataDiff := util.DetectChanges(localMetadataData, remoteMetadataData, "s3")

	if len(vaultDiff)+len(dataDiff) == 0 {
		log.Println("✅ Everything is up-to-date.")
		return nil
	}

	log.Println("📌 Files to be updated from S3:")
	for _, file := range append(vaultDiff, dataDiff...) {
		log.Println("   -", file)
	}

	return nil
}
